// Copyright 2025 The Juntada Authors
// SPDX-License-Identifier: Apache-2.0

package meet

import (
	"github.com/jcodagnone/juntada/utils/textutils"
)

type categoryRule struct {
	category Category
	tokens   []string
}

// First matching rule wins.
var categoryRules = []categoryRule{
	{CategoryCafe, []string{"cafe", "카페"}},
	{CategoryPub, []string{"bar", "주점", "술"}},
	{CategoryFood, []string{"restaurant", "음식", "식당"}},
	{CategoryPlay, []string{"노래", "공연", "전시", "게임", "테마"}},
}

// pubTokens spot drinking places among generic restaurant results.
var pubTokens = []string{
	"술집", "주점", "바", "펍", "와인바", "칵테일", "포차", "호프", "맥주", "이자카야",
	"wine", "pub", "bar", "izakaya", "tap",
}

// Categorize maps a free-text category label onto a Category. It is a best-effort
// heuristic: case and accents are ignored and anything unknown is CategoryOther.
func Categorize(raw string) Category {
	for _, rule := range categoryRules {
		if textutils.ContainsAny(raw, rule.tokens...) {
			return rule.category
		}
	}

	return CategoryOther
}

// IsPub reports whether the name or categories of p look like a drinking place.
// Short tokens such as "바" or "tap" make it permissive; it is meant to filter lists
// that are already known to be food places.
func IsPub(p Place) bool {
	return textutils.ContainsAny(p.Name+" "+p.CategoryRaw+" "+p.CategoryDetail, pubTokens...)
}
