// Package pjsua is the adapter for the external pjsua SIP client: it
// locates the binary, derives its startup arguments, encodes console
// commands, and classifies console output.
//
// Keep this package free of business logic. It only translates between
// the add-on's types and the pjsua command line / console text; decisions
// belong to the supervisor and bridge.
package pjsua

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no pjsua executable exists at any of the
// probed candidate paths.
var ErrNotFound = errors.New("pjsua binary not found")

// Candidate probe order. First existing executable wins; the order is
// fixed so the same filesystem always resolves to the same binary.
var (
	searchDirs  = []string{"/usr/local/bin", "/usr/bin", "/bin", "/usr/sbin"}
	binaryNames = []string{"pjsua", "pjsua-cli"}
)

// Locate probes the conventional install directories for a pjsua
// executable and returns the first match. The NotFound error lists every
// probed candidate so a missing install is diagnosable from the log.
func Locate() (string, error) {
	return locateIn(searchDirs, binaryNames)
}

func locateIn(dirs, names []string) (string, error) {
	probed := make([]string, 0, len(dirs)*len(names))
	for _, dir := range dirs {
		for _, name := range names {
			p := filepath.Join(dir, name)
			probed = append(probed, p)
			fi, err := os.Stat(p)
			if err != nil || fi.IsDir() {
				continue
			}
			if fi.Mode().Perm()&0o111 == 0 {
				continue
			}
			return p, nil
		}
	}
	return "", fmt.Errorf("%w; probed: %s", ErrNotFound, strings.Join(probed, ", "))
}
