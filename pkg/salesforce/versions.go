package salesforce

import "strings"

// releaseLabels maps REST API version numbers to Salesforce release names.
// Salesforce ships three releases per year; unknown versions fall back to
// the bare version string.
var releaseLabels = map[string]string{
	"65.0": "Winter '26",
	"64.0": "Fall '25",
	"63.0": "Summer '25",
	"62.0": "Spring '25",
	"61.0": "Winter '25",
	"60.0": "Fall '24",
	"59.0": "Summer '24",
	"58.0": "Spring '24",
	"57.0": "Winter '24",
}

// ReleaseLabel maps an API version ("v59.0" or "59.0") to its release name.
func ReleaseLabel(version string) string {
	clean := strings.TrimPrefix(version, "v")
	if label, ok := releaseLabels[clean]; ok {
		return label
	}
	return "v" + clean
}
