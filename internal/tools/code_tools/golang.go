package code_tools

import (
	"go/ast"
	"go/parser"
	"go/token"
)

// analyzeGoSource extracts types, functions, and methods from Go source
// using the standard parser. Methods are nested under their receiver
// type when it is declared in the same file.
func analyzeGoSource(path string, src []byte) ([]*symbol, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, 0)
	if err != nil {
		return nil, err
	}

	typeSymbols := map[string]*symbol{}
	var ordered []*symbol

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			s := &symbol{Name: ts.Name.Name, Kind: kindClass}
			typeSymbols[ts.Name.Name] = s
			ordered = append(ordered, s)
		}
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		s := &symbol{Name: fn.Name.Name, Kind: kindFunction, Params: paramNames(fn.Type)}
		if fn.Recv != nil && len(fn.Recv.List) > 0 {
			if recv := receiverTypeName(fn.Recv.List[0].Type); recv != "" {
				if parent, ok := typeSymbols[recv]; ok {
					parent.Children = append(parent.Children, s)
					continue
				}
			}
		}
		ordered = append(ordered, s)
	}

	return ordered, nil
}

func paramNames(ft *ast.FuncType) []string {
	if ft.Params == nil {
		return nil
	}
	var names []string
	for _, field := range ft.Params.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}
