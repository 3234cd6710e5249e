// Package codegen turns a validated schema.API into Go source, one file
// per Interface, by lowering each Member through the naming and lower
// packages and rendering the result with the facade template. Running it
// twice on the same input produces byte-identical output: every
// collection the templates range over is built and sorted
// deterministically before rendering.
package codegen

import (
	"fmt"
	"sort"

	"github.com/oakline-labs/playwright-go/codegen/lower"
	"github.com/oakline-labs/playwright-go/codegen/naming"
	"github.com/oakline-labs/playwright-go/codegen/schema"
	"github.com/oakline-labs/playwright-go/codegen/templates"
)

// Options configures Generate.
type Options struct {
	// Package is the Go package name stamped into every generated file.
	Package string
}

// File is one generated Go source file, keyed by the Interface it came
// from.
type File struct {
	InterfaceName string
	Filename      string
	Source        string
}

// Generate lowers every Interface in api into one File apiece.
func Generate(api schema.API, opts Options) ([]File, error) {
	if opts.Package == "" {
		opts.Package = "facade"
	}
	interfaces := append([]schema.Interface(nil), api.Interfaces...)
	sort.Slice(interfaces, func(i, j int) bool { return interfaces[i].Name < interfaces[j].Name })

	files := make([]File, 0, len(interfaces))
	for _, iface := range interfaces {
		data, err := buildInterfaceData(iface, opts)
		if err != nil {
			return nil, fmt.Errorf("codegen: interface %q: %w", iface.Name, err)
		}
		src, err := templates.Default.Render("facade", data)
		if err != nil {
			return nil, fmt.Errorf("codegen: interface %q: %w", iface.Name, err)
		}
		files = append(files, File{
			InterfaceName: iface.Name,
			Filename:      naming.WireName(iface.Name) + "_gen.go",
			Source:        src,
		})
	}
	return files, nil
}

type interfaceData struct {
	Package  string
	GoName   string
	WireName string
	Hoisted  []lower.Hoisted
	Members  []memberData
}

type memberData struct {
	GoName          string
	WireName        string
	IsProperty      bool
	NeedsBuilder    bool
	BuilderName     string
	OptionsTypeName string
	ResultType      string
	RequiredArgs    []lower.Arg
	OptionalArgs    []lower.Arg
	AllArgs         []lower.Arg
}

func buildInterfaceData(iface schema.Interface, opts Options) (interfaceData, error) {
	if err := lower.Validate(iface.Name); err != nil {
		return interfaceData{}, err
	}
	l := lower.New()
	goName := naming.InterfaceName(iface.Name)

	members := make([]schema.Member, len(iface.Members))
	copy(members, iface.Members)
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })

	out := make([]memberData, 0, len(members))
	for _, m := range members {
		md, err := buildMemberData(l, goName, m)
		if err != nil {
			return interfaceData{}, err
		}
		out = append(out, md)
	}

	return interfaceData{
		Package:  opts.Package,
		GoName:   goName,
		WireName: naming.WireName(iface.Name),
		Hoisted:  lower.SortHoisted(l.Hoisted),
		Members:  out,
	}, nil
}

func buildMemberData(l *lower.Lowerer, ownerGoName string, m schema.Member) (memberData, error) {
	if err := lower.Validate(m.Name); err != nil {
		return memberData{}, err
	}
	goName := naming.MemberName(m.Name)
	resultType := l.Type(m.Type, m.Name, "Result")

	if m.Kind == schema.MemberProperty {
		return memberData{
			GoName:     goName,
			WireName:   naming.WireName(m.Name),
			IsProperty: true,
			ResultType: resultType,
		}, nil
	}

	args := lower.FlattenArgs(l, m.Name, m.Args)
	var required, optional []lower.Arg
	for _, a := range args {
		if a.Optional {
			optional = append(optional, a)
		} else {
			required = append(required, a)
		}
	}

	return memberData{
		GoName:          goName,
		WireName:        naming.WireName(m.Name),
		NeedsBuilder:    lower.NeedsBuilder(args),
		BuilderName:     goName + "Builder",
		OptionsTypeName: goName + "Options",
		ResultType:      resultType,
		RequiredArgs:    required,
		OptionalArgs:    optional,
		AllArgs:         args,
	}, nil
}
