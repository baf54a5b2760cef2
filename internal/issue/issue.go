// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestNotFoundId Id = iota + 1
	ManifestParseErrorId
	InvalidPackageNameId
	UnsupportedModeId
	ConfigLoadFailedId
	OverwriteDeclinedId
	BuildToolNotFoundId
	BuildFailedId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation pages about this issue
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue page as terminal markdown using the named glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	manifestNotFoundIssue = &Issue{
		id: ManifestNotFoundId,
		mdMsg: `
# Manifest not found!

lazypkg needs a package manifest to generate a recipe from.

## Things you can try:
- Check the path you passed on the command line
- Create a sample manifest in the current directory:
~~~
$ lazypkg init mypackage
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# The manifest could not be read!

The file is not valid YAML or CUE, or it does not match the manifest schema.

## Things you can try:
- Run the checker to see every problem at once:
~~~
$ lazypkg check mypackage.yml
~~~
- Make sure every hook name is one of pre_build, build, post_build,
  pre_install, post_install, pre_upgrade, post_upgrade, pre_remove, post_remove
- Dependency keys are deb, pkgbuild and rpm; flags are build and required`,
		extLinks: []HttpLink{"https://yaml.org/spec/1.2.2/", "https://cuelang.org/docs/"},
	}

	invalidPackageNameIssue = &Issue{
		id: InvalidPackageNameId,
		mdMsg: `
# Invalid package name!

Package names may only contain ASCII letters, digits, "-" and "_".

## Things you can try:
- Rename the package in the manifest's ` + "`name`" + ` field, for example ` + "`my-package`",
	}

	unsupportedModeIssue = &Issue{
		id: UnsupportedModeId,
		mdMsg: `
# Unsupported mode!

lazypkg can generate recipes for these modes:

- **pkgbuild**: Arch Linux PKGBUILD
- **deb**: debian/ directory for dpkg-buildpackage
- **rpm**: RPM .spec file

## Things you can try:
~~~
$ lazypkg modes
$ lazypkg prepare pkgbuild mypackage.yml
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Print the effective configuration:
~~~
$ lazypkg config show
~~~
- Write a fresh default configuration file:
~~~
$ lazypkg config init
~~~
- Check LAZYPKG_* environment variables for typos`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	overwriteDeclinedIssue = &Issue{
		id: OverwriteDeclinedId,
		mdMsg: `
# Nothing was written

A generated file already exists and overwriting it was declined.
No file was modified.

## Things you can try:
- Pass ` + "`--yes`" + ` to replace existing files
- Pass ` + "`--output <dir>`" + ` to write somewhere else`,
	}

	buildToolNotFoundIssue = &Issue{
		id: BuildToolNotFoundId,
		mdMsg: `
# Build tool not found!

The recipe was written, but the native build tool is not installed.

## Things you can try:
- pkgbuild needs **makepkg** (pacman)
- deb needs **dpkg-buildpackage** (dpkg-dev, debhelper)
- rpm needs **rpmbuild** (rpm-build)
- Configure another command under ` + "`build`" + ` in your config file`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# The package build failed!

The recipe was written and the build tool ran, but it exited with an error.

## Things you can try:
- Read the build tool output above
- Lint the generated recipe:
~~~
$ lazypkg check mypackage.yml
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

lazypkg could not read the manifest or write the recipe files.

## Things you can try:
- Check the permissions of the output directory
- Choose another directory with ` + "`--output`",
	}

	issues = map[Id]*Issue{
		manifestNotFoundIssue.Id():   manifestNotFoundIssue,
		manifestParseErrorIssue.Id(): manifestParseErrorIssue,
		invalidPackageNameIssue.Id(): invalidPackageNameIssue,
		unsupportedModeIssue.Id():    unsupportedModeIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		overwriteDeclinedIssue.Id():  overwriteDeclinedIssue,
		buildToolNotFoundIssue.Id():  buildToolNotFoundIssue,
		buildFailedIssue.Id():        buildFailedIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
