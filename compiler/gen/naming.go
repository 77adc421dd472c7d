package gen

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case is the case convention of a generated identifier.
type Case string

// Supported case conventions.
const (
	Snake  Case = "snake"
	Camel  Case = "camel"
	Pascal Case = "pascal"
)

// Valid reports if c is a known case convention.
func (c Case) Valid() bool { return c == Snake || c == Camel || c == Pascal }

// Number is the grammatical number applied to the last word of an identifier.
type Number string

// Supported numbers.
const (
	Unchanged Number = "unchanged"
	Singular  Number = "singular"
	Plural    Number = "plural"
)

// Valid reports if n is a known number.
func (n Number) Valid() bool { return n == Unchanged || n == Singular || n == Plural }

// NameRule is the case and number used for one kind of generated name.
type NameRule struct {
	Case   Case   `json:"case" yaml:"case" koanf:"case"`
	Number Number `json:"number" yaml:"number" koanf:"number"`
}

// Apply converts raw into an identifier following the rule.
func (r NameRule) Apply(raw string) string {
	return ToIdentifier(raw, r.Case, r.Number)
}

func (r NameRule) validate(option string) error {
	if !r.Case.Valid() {
		return NewConfigError(option+".case", r.Case, "use snake, camel or pascal")
	}
	if !r.Number.Valid() {
		return NewConfigError(option+".number", r.Number, "use unchanged, singular or plural")
	}
	return nil
}

type (
	// Naming holds the naming rules of every generated artifact kind.
	Naming struct {
		DataClass     DataClassNaming     `json:"dataClass" yaml:"dataClass" koanf:"data_class"`
		Field         FieldNaming         `json:"field" yaml:"field" koanf:"field"`
		APIClass      APIClassNaming      `json:"apiClass" yaml:"apiClass" koanf:"api_class"`
		MultiAPIClass MultiAPIClassNaming `json:"multiApiClass" yaml:"multiApiClass" koanf:"multi_api_class"`
	}

	// DataClassNaming names data classes, their files and variables.
	DataClassNaming struct {
		Name         NameRule `json:"name" yaml:"name" koanf:"name"`
		File         NameRule `json:"file" yaml:"file" koanf:"file"`
		Variable     NameRule `json:"variable" yaml:"variable" koanf:"variable"`
		VariableList NameRule `json:"variableList" yaml:"variableList" koanf:"variable_list"`
	}

	// FieldNaming names data class fields.
	FieldNaming struct {
		Name NameRule `json:"name" yaml:"name" koanf:"name"`
	}

	// APIClassNaming names API classes.
	APIClassNaming struct {
		Name     NameRule `json:"name" yaml:"name" koanf:"name"`
		File     NameRule `json:"file" yaml:"file" koanf:"file"`
		Variable NameRule `json:"variable" yaml:"variable" koanf:"variable"`
	}

	// MultiAPIClassNaming names the per data model API classes.
	MultiAPIClassNaming struct {
		Name            NameRule `json:"name" yaml:"name" koanf:"name"`
		ClientAttribute NameRule `json:"clientAttribute" yaml:"clientAttribute" koanf:"client_attribute"`
	}
)

// DefaultNaming returns the naming rules used when none are configured.
func DefaultNaming() Naming {
	return Naming{
		DataClass: DataClassNaming{
			Name:         NameRule{Pascal, Singular},
			File:         NameRule{Snake, Singular},
			Variable:     NameRule{Snake, Singular},
			VariableList: NameRule{Snake, Plural},
		},
		Field: FieldNaming{
			Name: NameRule{Snake, Unchanged},
		},
		APIClass: APIClassNaming{
			Name:     NameRule{Pascal, Singular},
			File:     NameRule{Snake, Singular},
			Variable: NameRule{Snake, Singular},
		},
		MultiAPIClass: MultiAPIClassNaming{
			Name:            NameRule{Pascal, Singular},
			ClientAttribute: NameRule{Snake, Singular},
		},
	}
}

// Validate checks that every rule uses known values.
func (n Naming) Validate() error {
	rules := []struct {
		option string
		rule   NameRule
	}{
		{"naming.data_class.name", n.DataClass.Name},
		{"naming.data_class.file", n.DataClass.File},
		{"naming.data_class.variable", n.DataClass.Variable},
		{"naming.data_class.variable_list", n.DataClass.VariableList},
		{"naming.field.name", n.Field.Name},
		{"naming.api_class.name", n.APIClass.Name},
		{"naming.api_class.file", n.APIClass.File},
		{"naming.api_class.variable", n.APIClass.Variable},
		{"naming.multi_api_class.name", n.MultiAPIClass.Name},
		{"naming.multi_api_class.client_attribute", n.MultiAPIClass.ClientAttribute},
	}
	for _, r := range rules {
		if err := r.rule.validate(r.option); err != nil {
			return err
		}
	}
	return nil
}

// ToIdentifier converts raw into a valid identifier. It never fails: the
// result is built from the ASCII letters and digits of raw, and it is "_"
// when raw holds none. Number is applied to the last word only.
//
//	ToIdentifier("HTTPResponse", Snake, Unchanged) // http_response
//	ToIdentifier("work_order", Pascal, Plural)     // WorkOrders
func ToIdentifier(raw string, c Case, n Number) string {
	words := splitWords(raw)
	if len(words) == 0 {
		return "_"
	}
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	last := len(words) - 1
	switch n {
	case Singular:
		words[last] = Singularize(words[last])
	case Plural:
		words[last] = Pluralize(words[last])
	}
	var s string
	switch c {
	case Pascal:
		s = joinTitle(words)
	case Camel:
		s = words[0] + joinTitle(words[1:])
	default:
		s = strings.Join(words, "_")
	}
	if isDigit(s[0]) {
		s = "_" + s
	}
	return s
}

// ToWords returns the lower-cased words of raw separated by spaces. It is
// used for documentation names.
func ToWords(raw string, n Number) string {
	words := splitWords(raw)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	last := len(words) - 1
	switch n {
	case Singular:
		words[last] = Singularize(words[last])
	case Plural:
		words[last] = Pluralize(words[last])
	}
	return strings.Join(words, " ")
}

// splitWords splits s into words at non-alphanumeric runes, at lower-to-upper
// and digit-to-upper transitions, and before the last capital of an upper-case
// run that is followed by a lower-case letter ("HTTPResponse" -> HTTP, Response).
func splitWords(s string) []string {
	var (
		words []string
		cur   []byte
	)
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	for i := 0; i < len(s); i++ {
		r := s[i]
		if !isAlnum(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := cur[len(cur)-1]
			switch {
			case isUpper(r) && (isLower(prev) || isDigit(prev)):
				flush()
			case isUpper(r) && isUpper(prev) && i+1 < len(s) && isLower(s[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// droppedRunes returns the letters and digits of raw that identifiers
// cannot carry.
func droppedRunes(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r > unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func joinTitle(words []string) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCase(w))
	}
	return b.String()
}

// titleCase capitalizes the first letter of a lower-cased word.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func isAlnum(b byte) bool { return isLower(b) || isUpper(b) || isDigit(b) }
func isLower(b byte) bool { return 'a' <= b && b <= 'z' }
func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }
func isDigit(b byte) bool { return '0' <= b && b <= '9' }

// isIdentifier reports if s is a valid ASCII identifier.
func isIdentifier(s string) bool {
	if s == "" || !utf8.ValidString(s) || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isAlnum(s[i]) && s[i] != '_' {
			return false
		}
	}
	return true
}

// pluralExceptions maps singular words to the plural form the generated SDK
// uses. An entry always wins over the inflection engine.
var pluralExceptions = map[string]string{
	"person":      "persons",
	"actress":     "actresses",
	"status":      "statuses",
	"alias":       "aliases",
	"schema":      "schemas",
	"index":       "indexes",
	"axis":        "axes",
	"child":       "children",
	"criterion":   "criteria",
	"equipment":   "equipment",
	"information": "information",
	"series":      "series",
	"timeseries":  "timeseries",
	"data":        "data",
	"metadata":    "metadata",
	"news":        "news",
	"bus":         "buses",
	"bonus":       "bonuses",
	"campus":      "campuses",
	"census":      "censuses",
	"virus":       "viruses",
	"radius":      "radii",
	"canvas":      "canvases",
	"atlas":       "atlases",
	"bias":        "biases",
	"gas":         "gases",
}

// singularSuffixes end words that are singular already. The inflection
// engine strips their trailing "s".
var singularSuffixes = []string{"ss", "sis"}

var singularExceptions = func() map[string]string {
	m := make(map[string]string, len(pluralExceptions))
	for s, p := range pluralExceptions {
		m[p] = s
	}
	return m
}()

// Pluralize returns the plural form of a lower-cased word.
func Pluralize(word string) string {
	if p, ok := pluralExceptions[word]; ok {
		return p
	}
	if _, ok := singularExceptions[word]; ok {
		return word
	}
	return inflect.Pluralize(word)
}

// Singularize returns the singular form of a lower-cased word.
func Singularize(word string) string {
	if s, ok := singularExceptions[word]; ok {
		return s
	}
	if _, ok := pluralExceptions[word]; ok {
		return word
	}
	for _, suffix := range singularSuffixes {
		if strings.HasSuffix(word, suffix) {
			return word
		}
	}
	// A word the engine cannot pluralize back was not plural.
	s := inflect.Singularize(word)
	if inflect.Pluralize(s) != word {
		return word
	}
	return s
}
