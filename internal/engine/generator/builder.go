package generator

import (
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder creates the compile command of a single source file.
type Builder struct {
	fs ports.FileSystem
}

// NewBuilder creates a new Builder.
func NewBuilder(fs ports.FileSystem) *Builder {
	return &Builder{fs: fs}
}

// Build returns the record for the root-relative source file rel. The file
// must still exist below root and be a regular file.
func (b *Builder) Build(root, rel string, target domain.Target, includes []string) (domain.CompileCommand, error) {
	if !filepath.IsLocal(rel) {
		return domain.CompileCommand{}, domain.ErrSourceOutsideRoot
	}

	info, err := b.fs.Stat(filepath.Join(root, rel))
	if err != nil {
		return domain.CompileCommand{}, zerr.Wrap(err, domain.ErrSourceUnreadable.Error())
	}
	if !info.Mode().IsRegular() {
		return domain.CompileCommand{}, domain.ErrSourceNotRegular
	}

	return domain.CompileCommand{
		Directory: root,
		Command:   Command(rel, target, includes),
		File:      rel,
	}, nil
}

// Command joins compiler, language flags, common flags, target defines,
// include flags and the compile-only flag with single spaces.
func Command(rel string, target domain.Target, includes []string) string {
	lang := domain.LanguageOf(rel)
	common := domain.CommonFlags(target)
	std := lang.StandardFlags()

	args := make([]string, 0, 1+len(std)+len(common)+len(includes)+2)
	args = append(args, lang.Compiler())
	args = append(args, std...)
	args = append(args, common...)
	for _, inc := range includes {
		args = append(args, quotePath(inc))
	}
	args = append(args, "-c", quotePath(rel))

	return strings.Join(args, " ")
}

// quotePath shell-quotes a path-derived token when it holds whitespace or
// shell metacharacters. Plain paths come back unchanged.
func quotePath(token string) string {
	return shellquote.Join(token)
}
