// Package config loads the optional vsupload.yaml settings file.
package config

import (
	"bytes"
	"os"
	"regexp"
)

// envRef matches ${VAR} and ${VAR:-default}. A bare $VAR is left alone.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// expandEnv substitutes environment references in data. A variable that is
// unset or empty takes its default; without one it expands to nothing and
// its name is returned in unset, once per name.
func expandEnv(data []byte) (out []byte, unset []string) {
	var buf bytes.Buffer
	seen := map[string]bool{}
	last := 0
	for _, m := range envRef.FindAllSubmatchIndex(data, -1) {
		buf.Write(data[last:m[0]])
		last = m[1]

		name := string(data[m[2]:m[3]])
		if v := os.Getenv(name); v != "" {
			buf.WriteString(v)
			continue
		}
		if m[4] >= 0 {
			buf.Write(data[m[4]+2 : m[5]])
			continue
		}
		if !seen[name] {
			seen[name] = true
			unset = append(unset, name)
		}
	}
	buf.Write(data[last:])
	return buf.Bytes(), unset
}
