// SPDX-License-Identifier: MPL-2.0

package manifest

// Sample returns a complete example manifest for the given package name.
// It is what `lazypkg init` writes for a new package.
func Sample(name string) *Manifest {
	return &Manifest{
		Name:        PackageName(name),
		Version:     Some("0.1"),
		Release:     Some("1"),
		Summary:     Some("anonymous P2P communication platform"),
		Description: Some("Onionr is a decentralized, peer-to-peer communication network, designed to be anonymous and resistant to (meta)data analysis, spam, and corruption."),
		License:     StringList{"GPL"},
		Website:     Some("https://onionr.net"),
		Contact:     Some("contact@onionr.net"),
		Author:      Some("Kevin Froman"),
		Sources: []SourceRef{
			{Git: "https://gitlab.com/beardog/onionr.git", Branch: "master"},
		},
		Dependencies: []Dependency{
			NewDependency(map[PackageManagerKey]string{KeyDeb: "git"}).WithRequired(true),
			NewDependency(map[PackageManagerKey]string{KeyDeb: "curl"}).WithRequired(true),
			NewDependency(map[PackageManagerKey]string{KeyDeb: "tor"}).WithRequired(true),
			NewDependency(map[PackageManagerKey]string{KeyDeb: "python3.7", KeyPkgbuild: "python"}).
				WithBuild(true).WithRequired(true),
			NewDependency(map[PackageManagerKey]string{KeyDeb: "python3-setuptools", KeyPkgbuild: "python-setuptools"}).
				WithBuild(true).WithRequired(true),
			NewDependency(map[PackageManagerKey]string{KeyDeb: "python3-pip", KeyPkgbuild: "python-pip"}).
				WithBuild(true).WithRequired(true),
		},
		Movements: []Movement{
			{Source: "install/onionr", Destination: "/usr/bin/", Owner: "root:root", Mode: "755"},
			{Source: "install/onionr.service", Destination: "/etc/systemd/system/", Owner: "root:root", Mode: "644"},
			{Source: "*", Destination: "/usr/share/onionr", Owner: "root:root", Mode: "755"},
		},
		Scripts: []ScriptRef{
			{Hook: HookPreInstall, Path: "install/pre_install.sh"},
			{Hook: HookPostInstall, Path: "install/post_install.sh"},
		},
	}
}
