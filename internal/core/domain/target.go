package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// DefaultTargetName is used when no target is given and none can be detected.
const DefaultTargetName = "linux-x86_64"

// Target describes one architecture and environment the tree cross-compiles for.
type Target struct {
	// Name is the identifier accepted on the command line.
	Name string
	// Triple is passed to the compiler as --target.
	Triple string
	// ArchDir is the arch/ fragment shared by all platforms of a CPU.
	ArchDir string
	// PlatformDir is the arch/ fragment specific to the platform.
	PlatformDir string
	// Defines are the target specific preprocessor flags.
	Defines []string
}

// CPU returns the CPU family, the part of ArchDir before the first dash.
func (t Target) CPU() string {
	cpu, _, _ := strings.Cut(t.ArchDir, "-")
	return cpu
}

var targets = []Target{
	{
		Name:        "linux-x86_64",
		Triple:      "x86_64-aros",
		ArchDir:     "x86_64-all",
		PlatformDir: "x86_64-pc",
		Defines:     hostDefines("__x86_64__", "linux-x86_64", "linux", "x86_64"),
	},
	{
		Name:        "linux-i386",
		Triple:      "i686-aros",
		ArchDir:     "i386-all",
		PlatformDir: "i386-pc",
		Defines:     hostDefines("__i386__", "linux-i386", "linux", "i386"),
	},
	{
		Name:        "pc-x86_64",
		Triple:      "x86_64-pc-aros",
		ArchDir:     "x86_64-all",
		PlatformDir: "x86_64-pc",
		Defines:     hostDefines("__x86_64__", "pc-x86_64", "none", "x86_64"),
	},
	{
		Name:        "pc-i386",
		Triple:      "i686-pc-aros",
		ArchDir:     "i386-all",
		PlatformDir: "i386-pc",
		Defines:     hostDefines("__i386__", "pc-i386", "none", "i386"),
	},
	{
		Name:        "amiga-m68k",
		Triple:      "m68k-amiga-aros",
		ArchDir:     "m68k-all",
		PlatformDir: "m68k-amiga",
		Defines:     hostDefines("__m68k__", "amiga-m68k", "none", "m68k"),
	},
	{
		Name:        "raspi-armhf",
		Triple:      "arm-aros-gnueabihf",
		ArchDir:     "arm-all",
		PlatformDir: "arm-raspi",
		Defines:     hostDefines("__arm__", "raspi-armhf", "none", "arm"),
	},
}

func hostDefines(cpuMacro, architecture, hostOS, hostArch string) []string {
	return []string{
		"-D" + cpuMacro,
		fmt.Sprintf("-DAROS_ARCHITECTURE=%q", architecture),
		"-DHOST_OS_" + hostOS,
		"-DHOST_ARCH_" + hostArch,
	}
}

// Targets returns a copy of the configuration table in declaration order.
func Targets() []Target {
	out := make([]Target, len(targets))
	for i, t := range targets {
		t.Defines = append([]string(nil), t.Defines...)
		out[i] = t
	}
	return out
}

// TargetNames returns the valid target identifiers in declaration order.
func TargetNames() []string {
	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}
	return names
}

// LookupTarget returns the configuration for name.
// An unknown name yields an error that lists every valid identifier.
func LookupTarget(name string) (Target, error) {
	for _, t := range targets {
		if t.Name == name {
			t.Defines = append([]string(nil), t.Defines...)
			return t, nil
		}
	}
	msg := fmt.Sprintf("target '%s' is not supported\navailable targets: %s",
		name, strings.Join(TargetNames(), ", "))
	return Target{}, zerr.Wrap(ErrUnknownTarget, msg)
}
