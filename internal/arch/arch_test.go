// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	outer := []string{
		"phtnsrc/internal/app", "phtnsrc/internal/cli", "phtnsrc/internal/config",
		"phtnsrc/internal/pipeline", "phtnsrc/internal/writers", "phtnsrc/internal/meshtag",
		"phtnsrc/cmd/",
	}
	bans := map[string][]string{
		"phtnsrc/internal/errs":   outer,
		"phtnsrc/internal/report": outer,
		"phtnsrc/internal/source": outer,
		"phtnsrc/internal/mcnp":   outer,
		"phtnsrc/internal/sdef":   outer,
		"phtnsrc/internal/gammas": outer,
		"phtnsrc/internal/mesh/":  outer,
		"phtnsrc/internal/writers": {
			"phtnsrc/internal/app", "phtnsrc/internal/cli",
			"phtnsrc/internal/pipeline", "phtnsrc/cmd/",
		},
		"phtnsrc/internal/pipeline": {
			"phtnsrc/internal/app", "phtnsrc/internal/cli", "phtnsrc/cmd/",
		},
		"phtnsrc/pkg/": {"phtnsrc/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "phtnsrc/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if imp != strings.TrimSuffix(prefix, "/") && !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "phtnsrc/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
