package component

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// reservedIdentifiers are JavaScript reserved words plus the names the
// aggregate entry modules declare next to the component exports.
var reservedIdentifiers = map[string]struct{}{
	// ECMAScript reserved and strict-mode words.
	"await": {}, "break": {}, "case": {}, "catch": {}, "class": {}, "const": {},
	"continue": {}, "debugger": {}, "default": {}, "delete": {}, "do": {}, "else": {},
	"enum": {}, "export": {}, "extends": {}, "false": {}, "finally": {}, "for": {},
	"function": {}, "if": {}, "implements": {}, "import": {}, "in": {}, "instanceof": {},
	"interface": {}, "let": {}, "new": {}, "null": {}, "package": {}, "private": {},
	"protected": {}, "public": {}, "return": {}, "static": {}, "super": {}, "switch": {},
	"this": {}, "throw": {}, "true": {}, "try": {}, "typeof": {}, "var": {}, "void": {},
	"while": {}, "with": {}, "yield": {}, "arguments": {}, "eval": {},

	// Aggregate entry module scope.
	"install": {}, "components": {}, "pick": {}, "App": {}, "_default": {},
	"module": {}, "exports": {}, "require": {},
}

// ValidIdentifier reports whether name can be used as a top-level binding in
// the generated entry modules. The empty string is not valid.
func ValidIdentifier(name string) bool {
	if !identifierPattern.MatchString(name) {
		return false
	}
	_, reserved := reservedIdentifiers[name]
	return !reserved
}
