// Package titles guesses encyclopedia article titles for a map feature.
//
// Candidates are ordered most-specific-first; the resolver tries them in
// that order and stops at the first verified article, so the order is the
// disambiguation priority.
package titles

import (
	"regexp"
	"strings"

	"github.com/ppiankov/geolore/internal/model"
)

var parentheticalRe = regexp.MustCompile(`\s*\([^)]*\)`)

// strategy appends category-specific candidates for a cleaned name
type strategy func(b *builder, name string, ctx model.Context)

var strategies = map[model.Category]strategy{
	model.CategoryCity:    cityCandidates,
	model.CategoryRiver:   waterCandidates(model.CategoryRiver),
	model.CategoryLake:    waterCandidates(model.CategoryLake),
	model.CategorySea:     waterCandidates(model.CategorySea),
	model.CategoryStrait:  waterCandidates(model.CategoryStrait),
	model.CategoryCountry: plainCandidates(model.CategoryCountry),
	model.CategoryDefault: plainCandidates(model.CategoryDefault),
}

// Build returns the deduplicated candidate titles for name, most specific first
func Build(name string, category model.Category, ctx model.Context) []string {
	base := CleanName(name)
	if base == "" {
		return []string{}
	}

	ctx.Country = strings.TrimSpace(ctx.Country)
	ctx.StateOrProvince = strings.TrimSpace(ctx.StateOrProvince)
	if strings.EqualFold(ctx.Country, base) {
		ctx.Country = ""
	}
	if strings.EqualFold(ctx.StateOrProvince, base) {
		ctx.StateOrProvince = ""
	}

	fn, ok := strategies[category]
	if !ok {
		fn = strategies[model.CategoryDefault]
	}

	b := &builder{seen: make(map[string]bool)}
	fn(b, base, ctx)
	return b.out
}

// CleanName drops parenthetical qualifiers and collapses whitespace
func CleanName(name string) string {
	return strings.Join(strings.Fields(parentheticalRe.ReplaceAllString(name, "")), " ")
}

type builder struct {
	out  []string
	seen map[string]bool
}

func (b *builder) add(titles ...string) {
	for _, t := range titles {
		t = strings.Join(strings.Fields(t), " ")
		if t == "" {
			continue
		}
		k := strings.ToLower(t)
		if b.seen[k] {
			continue
		}
		b.seen[k] = true
		b.out = append(b.out, t)
	}
}

func cityCandidates(b *builder, name string, ctx model.Context) {
	state, country := ctx.StateOrProvince, ctx.Country
	switch {
	case state != "" && country != "":
		b.add(name+", "+state+", "+country, name+", "+state, name+", "+country)
	case state != "":
		b.add(name + ", " + state)
	case country != "":
		b.add(name + ", " + country)
	}
	b.add(name+" city", name)
}

// waterCandidates builds the river/lake/sea/strait strategy around the
// category's type word.
func waterCandidates(category model.Category) strategy {
	word := category.TypeWord()
	return func(b *builder, name string, ctx model.Context) {
		implied := mentions(name, category)
		typed := name
		if !implied {
			typed = name + " " + word
		}

		if c := ctx.Country; c != "" {
			b.add(typed + " (" + c + ")")
			if !implied {
				b.add(name + " " + word + ", " + c)
			}
			b.add(typed + ", " + c)
		}
		b.add(typed)
		if !implied {
			b.add(name + " " + word)
			if category == model.CategoryLake {
				b.add(word + " " + name)
			}
		}
		if implied {
			b.add(flip(name, word)...)
			if category == model.CategorySea {
				b.add(swapSeaOcean(name)...)
			}
		}
		universal(b, name, category)
		b.add(name)
	}
}

// plainCandidates serves countries and uncategorised features, where the
// bare name is tried before any typed form.
func plainCandidates(category model.Category) strategy {
	return func(b *builder, name string, ctx model.Context) {
		if c := ctx.Country; c != "" {
			b.add(name+" ("+c+")", name+", "+c)
		}
		b.add(name)
		universal(b, name, category)
	}
}

// universal adds "Name Type" and "Type of Name" unless the name already
// carries the type word. Cities only get the former since "Name city" is
// already a city fallback; default features have no type word.
func universal(b *builder, name string, category model.Category) {
	word := category.TypeWord()
	if word == "" || category == model.CategoryCity || mentions(name, category) {
		return
	}
	b.add(name+" "+word, word+" of "+name)
}

var categoryWords = map[model.Category][]string{
	model.CategoryRiver:   {"river"},
	model.CategoryLake:    {"lake"},
	model.CategorySea:     {"sea", "ocean"},
	model.CategoryStrait:  {"strait"},
	model.CategoryCity:    {"city"},
	model.CategoryCountry: {"country"},
}

// mentions reports whether name already contains one of the category's words
func mentions(name string, category model.Category) bool {
	lower := strings.ToLower(name)
	for _, w := range categoryWords[category] {
		if containsWord(lower, w) {
			return true
		}
	}
	return false
}

func containsWord(lower, word string) bool {
	for _, f := range strings.FieldsFunc(lower, func(r rune) bool {
		return r == ' ' || r == '-' || r == ','
	}) {
		if f == word {
			return true
		}
	}
	return false
}

// flip swaps the leading and trailing placement of the type word:
// "Lake X" ⇄ "X Lake", "Strait of X" ⇄ "X Strait".
func flip(name, word string) []string {
	lw := strings.ToLower(word)
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return nil
	}

	first := strings.ToLower(fields[0])
	last := strings.ToLower(fields[len(fields)-1])

	switch {
	case first == lw && len(fields) > 2 && strings.ToLower(fields[1]) == "of":
		return []string{strings.Join(fields[2:], " ") + " " + word}
	case first == lw:
		return []string{strings.Join(fields[1:], " ") + " " + word}
	case last == lw:
		rest := strings.Join(fields[:len(fields)-1], " ")
		if lw == "strait" || lw == "sea" {
			return []string{word + " of " + rest}
		}
		return []string{word + " " + rest}
	}
	return nil
}

// swapSeaOcean tries "Ocean" where the name says "Sea" and vice versa
func swapSeaOcean(name string) []string {
	fields := strings.Fields(name)
	var out []string
	for i, f := range fields {
		var repl string
		switch strings.ToLower(f) {
		case "sea":
			repl = "Ocean"
		case "ocean":
			repl = "Sea"
		default:
			continue
		}
		swapped := append([]string(nil), fields...)
		swapped[i] = repl
		out = append(out, strings.Join(swapped, " "))
	}
	return out
}
