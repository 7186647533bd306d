package utils

import "strings"

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// StripAngleBrackets removes < and > and trims surrounding whitespace
func StripAngleBrackets(s string) string {
	return strings.TrimSpace(angleBrackets.Replace(s))
}
