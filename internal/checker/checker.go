package checker

import (
	"treec/ast"
	"treec/internal/common"
	"treec/internal/parsed"
	"treec/internal/typed"
)

// CheckModule implements spec.md §6's checkModule: no source ranges are
// attached to the returned errors.
func CheckModule(module *parsed.Module) (*typed.Module, []error) {
	return CheckModuleWithLineInformation(module, nil)
}

// CheckModuleWithLineInformation implements spec.md §6's
// checkModuleWithLineInformation: errors carry source ranges resolved
// from lines when lines is non-nil.
//
// The driver folds left to right over top-levels (spec.md §5): data types
// first register their type lambda and constructors, function
// declarations check against whatever the environment holds so far. A
// failing top-level adds its errors to the log and is otherwise skipped —
// the module keeps going (spec.md §7's accumulate-across-top-levels
// policy) — but the environment it leaves behind for later top-levels is
// whatever registerADT/checkDeclaration themselves chose to keep on
// failure.
func CheckModuleWithLineInformation(module *parsed.Module, lines *ast.LineTable) (*typed.Module, []error) {
	log := &common.Log{}
	env := NewEnvironment()

	typedModule := &typed.Module{
		Constructors: map[ast.Identifier]*typed.Constructor{},
	}

	for _, top := range module.TopLevels {
		switch t := top.(type) {
		case *parsed.DataTypeTopLevel:
			var decls []*typed.Declaration
			var errs []error
			env, decls, errs = registerADT(env, lines, t.ADT)
			if log.Err(errs...) {
				continue
			}
			typedModule.Declarations = append(typedModule.Declarations, decls...)
			for _, c := range env.Constructors(t.ADT.Name) {
				typedModule.Constructors[c.Name] = c
			}

		case *parsed.FunctionTopLevel:
			decl, nextEnv, err := checkDeclaration(env, lines, t.Declaration, true)
			if log.Err(err) {
				continue
			}
			env = nextEnv
			typedModule.Declarations = append(typedModule.Declarations, decl)

		default:
			log.Err(common.NewCompilerError("unhandled parsed.TopLevel variant"))
		}
	}

	if log.HasErrors() {
		return nil, log.Errors()
	}
	return typedModule, nil
}
