//
// SPDX-License-Identifier: GPL-3.0-or-later
//
// Grounded on: _examples/original_source/spec_checks/src/local/{apt,
// homebrew,homebrew_cask,homebrew_tap,npm,gem}.rs — six check variants
// sharing one "is this name present, and at what version" shape
// against a [adapters.RunPackageList]-compatible adapter.
//

package checks

import (
	"context"
	"fmt"

	"github.com/bassosimone/specsheet"
	"github.com/bassosimone/specsheet/adapters"
	"github.com/bassosimone/specsheet/exec"
)

// packageFamily names one package-manager flavor: its check-table
// name, the entry field naming the package/tap, whether it tracks
// versions, and the [*specsheet.Environment] field holding its
// adapter.
type packageFamily struct {
	checkType    string
	nameField    string
	hasVersions  bool
	stateAliases []string
	adapterOf    func(env *specsheet.Environment) adapters.RunPackageList
}

var packageFamilies = map[string]packageFamily{
	"apt": {
		checkType: "apt", nameField: "package", hasVersions: true,
		stateAliases: []string{"installed", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.Apt },
	},
	"homebrew": {
		checkType: "homebrew", nameField: "package", hasVersions: true,
		stateAliases: []string{"installed", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.Homebrew },
	},
	"homebrew_cask": {
		checkType: "homebrew_cask", nameField: "cask", hasVersions: true,
		stateAliases: []string{"installed", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.HomebrewCask },
	},
	"homebrew_tap": {
		checkType: "homebrew_tap", nameField: "tap", hasVersions: false,
		stateAliases: []string{"present", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.HomebrewTap },
	},
	"npm": {
		checkType: "npm", nameField: "package", hasVersions: true,
		stateAliases: []string{"installed", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.Npm },
	},
	"gem": {
		checkType: "gem", nameField: "package", hasVersions: true,
		stateAliases: []string{"installed", "missing"},
		adapterOf:    func(env *specsheet.Environment) adapters.RunPackageList { return env.Gem },
	},
}

// PackageCheck asserts that a package manager does or does not report
// a given name installed, optionally at a specific version.
type PackageCheck struct {
	family  packageFamily
	name    string
	missing bool
	version string // empty means "any version"
}

func readPackageCheck(family packageFamily, v specsheet.Value) (*PackageCheck, error) {
	keys := []string{family.nameField, "state"}
	if family.hasVersions {
		keys = append(keys, "version")
	}
	if err := v.EnsureOnlyKeys(keys); err != nil {
		return nil, err
	}

	nameVal, err := v.GetOrReadError(family.nameField)
	if err != nil {
		return nil, err
	}
	name, err := nameVal.StringOrError(family.nameField)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, specsheet.NewInvalidValue(family.nameField, nameVal, "it must not be empty")
	}

	c := &PackageCheck{family: family, name: name}

	var version string
	if family.hasVersions {
		if versionVal, ok := v.Get("version"); ok {
			version, err = versionVal.StringOrError("version")
			if err != nil {
				return nil, err
			}
			if version == "" {
				return nil, specsheet.NewInvalidValue("version", versionVal, "it must not be empty")
			}
		}
	}

	stateVal, hasState := v.Get("state")
	if !hasState {
		c.version = version
		return c, nil
	}
	state, err := stateVal.StringOrError2("state", specsheet.OneOf(family.stateAliases))
	if err != nil {
		return nil, err
	}
	switch state {
	case "installed", "present":
		c.version = version
	case "missing", "absent", "uninstalled":
		if version != "" {
			return nil, specsheet.NewConflict("version")
		}
		c.missing = true
	default:
		return nil, specsheet.NewInvalidValue("state", stateVal, specsheet.OneOf(family.stateAliases))
	}
	return c, nil
}

// Type implements [specsheet.Check].
func (c *PackageCheck) Type() string { return c.family.checkType }

// String implements [fmt.Stringer].
func (c *PackageCheck) String() string {
	noun := "Package"
	if c.family.checkType == "homebrew_tap" {
		noun = "Tap"
	}
	switch {
	case c.missing:
		return fmt.Sprintf("%s '%s' is not installed", noun, c.name)
	case c.version != "":
		return fmt.Sprintf("%s '%s' version '%s' is installed", noun, c.name, c.version)
	default:
		return fmt.Sprintf("%s '%s' is installed", noun, c.name)
	}
}

// Load implements [specsheet.RunnableCheck].
func (c *PackageCheck) Load(env *specsheet.Environment) error {
	c.family.adapterOf(env).Prime()
	return nil
}

// Evaluate implements [specsheet.RunnableCheck].
func (c *PackageCheck) Evaluate(ctx context.Context, ex *exec.Executor, env *specsheet.Environment) []specsheet.Result {
	gotVersion, present, err := c.family.adapterOf(env).FindPackage(ctx, ex, c.name)
	if err != nil {
		return []specsheet.Result{specsheet.CommandErrorResult(err)}
	}

	switch {
	case c.missing && present:
		return []specsheet.Result{specsheet.FailedResult(pkgIsPresent{})}
	case c.missing:
		return []specsheet.Result{specsheet.PassedResult(pkgIsMissing{})}
	case !present:
		return []specsheet.Result{specsheet.FailedResult(pkgIsMissing{})}
	case c.version != "" && c.version != gotVersion:
		return []specsheet.Result{
			specsheet.PassedResult(pkgIsInstalled{}),
			specsheet.FailedResult(pkgWrongVersion{gotVersion}),
		}
	case c.version != "":
		return []specsheet.Result{
			specsheet.PassedResult(pkgIsInstalled{}),
			specsheet.PassedResult(pkgCorrectVersion{gotVersion}),
		}
	default:
		return []specsheet.Result{specsheet.PassedResult(pkgIsInstalled{})}
	}
}

type pkgIsInstalled struct{}

func (pkgIsInstalled) String() string { return "it is installed" }

type pkgIsMissing struct{}

func (pkgIsMissing) String() string { return "it is not installed" }

type pkgIsPresent struct{}

func (pkgIsPresent) String() string { return "it is installed" }

type pkgCorrectVersion struct{ version string }

func (p pkgCorrectVersion) String() string { return fmt.Sprintf("version '%s' is installed", p.version) }

type pkgWrongVersion struct{ version string }

func (p pkgWrongVersion) String() string { return fmt.Sprintf("version '%s' is installed", p.version) }

// ReadAptCheck parses a "[[apt]]" table entry.
func ReadAptCheck(v specsheet.Value) (*PackageCheck, error) { return readPackageCheck(packageFamilies["apt"], v) }

// ReadHomebrewCheck parses a "[[homebrew]]" table entry.
func ReadHomebrewCheck(v specsheet.Value) (*PackageCheck, error) {
	return readPackageCheck(packageFamilies["homebrew"], v)
}

// ReadHomebrewCaskCheck parses a "[[homebrew_cask]]" table entry.
func ReadHomebrewCaskCheck(v specsheet.Value) (*PackageCheck, error) {
	return readPackageCheck(packageFamilies["homebrew_cask"], v)
}

// ReadHomebrewTapCheck parses a "[[homebrew_tap]]" table entry.
func ReadHomebrewTapCheck(v specsheet.Value) (*PackageCheck, error) {
	return readPackageCheck(packageFamilies["homebrew_tap"], v)
}

// ReadNpmCheck parses a "[[npm]]" table entry.
func ReadNpmCheck(v specsheet.Value) (*PackageCheck, error) { return readPackageCheck(packageFamilies["npm"], v) }

// ReadGemCheck parses a "[[gem]]" table entry.
func ReadGemCheck(v specsheet.Value) (*PackageCheck, error) { return readPackageCheck(packageFamilies["gem"], v) }
