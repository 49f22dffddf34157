package domain

// baseFlags are passed for every target, after --target and before the target defines.
var baseFlags = []string{
	"-nostdinc",
	"-nostdlib",
	"-fno-builtin",
	"-fno-strict-aliasing",
	"-fomit-frame-pointer",
	"-finline-functions",
	"-Wall",
	"-Wno-pointer-sign",
	"-Wno-unused-but-set-variable",
	"-Wno-uninitialized",
	"-Wno-parentheses",
	"-Wno-format",
	"-Wno-implicit-function-declaration",

	"-D__AROS__",
	"-D_LARGEFILE_SOURCE",
	"-D_LARGEFILE64_SOURCE",
	"-D_FILE_OFFSET_BITS=64",
	"-DHAVE_WORKING_FORK",
	"-DHAVE_SA_LEN",
	"-DHAVE_RESOLV_H",
	"-DUSE_INLINE_STDARG",
}

// CommonFlags returns the target independent compilation flags followed by the
// target's own defines.
func CommonFlags(t Target) []string {
	flags := make([]string, 0, 1+len(baseFlags)+len(t.Defines))
	flags = append(flags, "--target="+t.Triple)
	flags = append(flags, baseFlags...)
	return append(flags, t.Defines...)
}
