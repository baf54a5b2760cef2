// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"fmt"

	"github.com/lazypkg/lazypkg/pkg/manifest"
)

// FormatSources renders the manifest's git sources as a quoted list of
// "${pkgname}-${pkgver}::git+<url>#branch=<branch>" descriptors. Only modes
// whose recipes fetch sources themselves (pkgbuild) produce output; the
// others return "".
func FormatSources(mode Mode, m *manifest.Manifest, q Quote) string {
	r, ok := rulesFor(mode)
	if !ok || !r.gitSources {
		return ""
	}
	descriptors := make([]string, 0, len(m.Sources))
	for _, s := range m.Sources {
		descriptors = append(descriptors, fmt.Sprintf("${pkgname}-${pkgver}::git+%s#branch=%s", s.Git, s.EffectiveBranch()))
	}
	return FormatList(descriptors, q)
}
