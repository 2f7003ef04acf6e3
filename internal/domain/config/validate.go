package config

import (
	"fmt"
	"strings"

	"github.com/dotsetup/dotsetup/internal/validation"
	"golang.org/x/mod/semver"
)

// Validate checks the manifest and returns an *ErrorList describing every
// problem found, or nil.
func (m *Manifest) Validate() error {
	errs := NewErrorList()
	if m.Version != "" && !semver.IsValid(canonicalVersion(m.Version)) {
		errs.Add(NewInvalidError("version", fmt.Sprintf("%q is not a semantic version", m.Version)).
			WithSuggestion(`Use a version such as "1.2" or "1.2.0".`))
	}
	seen := make(map[string]string)
	validateSteps(m.Steps, "steps", seen, errs)
	return errs.AsError()
}

// canonicalVersion adds the "v" prefix semver expects.
func canonicalVersion(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

func validateSteps(steps []StepSpec, prefix string, seen map[string]string, errs *ErrorList) {
	for i, s := range steps {
		field := fmt.Sprintf("%s[%d]", prefix, i)

		if s.Name == "" {
			errs.AddInvalid(field+".name", "name is required")
		} else if first, dup := seen[s.Name]; dup {
			errs.AddInvalid(field+".name", fmt.Sprintf("duplicate step name %q (first used at %s)", s.Name, first))
		} else {
			seen[s.Name] = field
		}

		if !s.Kind.Known() {
			errs.Add(NewStepUnknownError(field+".kind", s.Kind))
			continue
		}

		validateKind(s, field, errs)

		if s.Kind == KindConfirm {
			validateSteps(s.Steps, field+".steps", seen, errs)
		} else if len(s.Steps) > 0 {
			errs.AddInvalid(field+".steps", "only confirm steps can nest steps")
		}
	}
}

func validateKind(s StepSpec, field string, errs *ErrorList) {
	switch s.Kind {
	case KindRequireFiles, KindEnsureDirs:
		if len(s.Paths) == 0 {
			errs.AddInvalid(field+".paths", "at least one path is required")
		}
		for j, p := range s.Paths {
			if p == "" {
				errs.AddInvalid(fmt.Sprintf("%s.paths[%d]", field, j), "path is empty")
				continue
			}
			validatePath(fmt.Sprintf("%s.paths[%d]", field, j), p, errs)
		}

	case KindPackages:
		if len(s.Packages) == 0 {
			errs.AddInvalid(field+".packages", "at least one package is required")
		}
		for j, name := range s.Packages {
			if err := validation.ValidatePackageName(name); err != nil {
				errs.AddInvalid(fmt.Sprintf("%s.packages[%d]", field, j), err.Error())
			}
		}

	case KindCopyFile, KindCopyTree:
		if s.Src == "" {
			errs.AddInvalid(field+".src", "src is required")
		} else {
			validatePath(field+".src", s.Src, errs)
		}
		if s.Dest == "" {
			errs.AddInvalid(field+".dest", "dest is required")
		} else {
			validatePath(field+".dest", s.Dest, errs)
		}
		if s.Kind == KindCopyFile {
			if err := validation.ValidateFileMode(s.Mode); err != nil {
				errs.AddInvalid(field+".mode", err.Error())
			}
		}

	case KindSettings:
		if s.Src == "" {
			errs.AddInvalid(field+".src", "src is required")
		} else {
			validatePath(field+".src", s.Src, errs)
		}
		if err := validation.ValidateDconfPath(s.Target); err != nil {
			errs.AddInvalid(field+".target", err.Error())
		}

	case KindConfirm:
		if s.Question == "" {
			errs.AddInvalid(field+".question", "question is required")
		}
		if len(s.Steps) == 0 {
			errs.AddInvalid(field+".steps", "at least one nested step is required")
		}
	}
}

// validatePath rejects manifest paths that climb out of their anchor
// directory with "..".
func validatePath(field, p string, errs *ErrorList) {
	if err := validation.ValidatePath(p); err != nil {
		errs.AddInvalid(field, err.Error())
	}
}
