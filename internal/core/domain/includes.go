package domain

import "path/filepath"

// IncludeCandidates returns the header search directories for a target in
// priority order: generated headers from the build directory first, then the
// source tree. The list is not filtered; callers drop what does not exist.
func IncludeCandidates(root, buildDir string, t Target) []string {
	dev := filepath.Join(buildDir, "Development", "include")
	src := func(parts ...string) string {
		return filepath.Join(append([]string{root}, parts...)...)
	}

	return []string{
		dev,
		filepath.Join(dev, "aros"),
		filepath.Join(dev, "aros", t.CPU()),

		src("compiler", "include"),
		src("compiler", "arosinclude"),
		src("compiler", "clib", "include"),
		src("arch", "common", "include"),
		src("arch", "all-unix", "devs", "filesys", "emul_handler"),
		src("arch", t.ArchDir, "include"),
		src("arch", t.PlatformDir, "include"),
		src("arch", "all-pc", "include"),
		src("arch", "all-native", "include"),

		src("rom", "exec"),
		src("rom", "dos"),
		src("rom", "utility"),
		src("rom", "graphics"),
		src("rom", "intuition"),
		src("rom", "workbench"),

		src("workbench", "libs"),
		src("workbench", "c"),
		src("workbench", "system"),
	}
}
