package emitter

import (
	"fmt"

	"github.com/oxhq/luascript/internal/ir"
)

// emitClassDecl renders a ClassDeclaration as a Lua table `Name` with
// `Name.__index = Name`, a metatable chaining to the superclass for method
// lookup, a `Name.new(...)` allocator that runs `constructor`, and one
// function per method (§8 worked example S6).
func (p *Printer) emitClassDecl(n *ir.Node) {
	p.emitClassBody(n)
}

// emitClassBody emits the statements that build the class table bound to
// n.Name, reused both at Program scope (emitClassDecl) and inside the IIFE
// a ClassExpr compiles to (classExprInline).
func (p *Printer) emitClassBody(n *ir.Node) {
	name := n.Name
	if name == "" {
		name = p.nextTemp("class")
	}
	super := p.get(n.SuperClass)

	p.line("local %s = {}", name)
	p.line("%s.__index = %s", name, name)
	if super != nil {
		p.line("setmetatable(%s, { __index = %s })", name, p.identName(super))
	}

	var ctor *ir.Node
	var methods []*ir.Node
	var fields []*ir.Node
	for _, memberID := range n.Members {
		m := p.get(memberID)
		if m == nil {
			continue
		}
		switch m.Kind {
		case ir.KindMethodDef:
			if m.MethodKind == "constructor" {
				ctor = m
			} else {
				methods = append(methods, m)
			}
		default:
			fields = append(fields, m)
		}
	}

	p.line("function %s.new(...)", name)
	p.indent++
	p.line("local self = setmetatable({}, %s)", name)
	if super != nil {
		p.line("self.__super = %s", p.identName(super))
	}
	for _, f := range fields {
		if f.IsStatic {
			continue
		}
		fn := p.get(f.Binder)
		fname := ""
		if fn != nil {
			fname = fn.Name
		}
		if f.Init != "" {
			p.line("self.%s = %s", fname, p.expr(f.Init, 0))
		} else {
			p.line("self.%s = nil", fname)
		}
	}
	if ctor != nil {
		params := p.paramNames(ctor.Params)
		args := "self"
		if len(params) > 0 {
			args += ", " + joinParams(params)
		}
		p.line("%s.constructor(%s)", name, args)
	}
	p.line("return self")
	p.indent--
	p.line("end")

	if ctor != nil {
		p.emitMethod(name, "constructor", ctor)
	}
	for _, m := range methods {
		p.emitMethod(name, m.Name, m)
	}
	for _, f := range fields {
		if !f.IsStatic {
			continue
		}
		fn := p.get(f.Binder)
		fname := ""
		if fn != nil {
			fname = fn.Name
		}
		init := "nil"
		if f.Init != "" {
			init = p.expr(f.Init, 0)
		}
		p.line("%s.%s = %s", name, fname, init)
	}
}

// emitMethod renders one MethodDef as `function Class.name(self, params)`.
// `self` is threaded explicitly rather than via Lua's `:` sugar so
// `super.method(self, ...)` calls (see Printer.call's Super-callee case)
// have a uniform calling convention regardless of which class defined the
// method.
func (p *Printer) emitMethod(className, methodName string, m *ir.Node) {
	params := p.paramNames(m.Params)
	header := fmt.Sprintf("function %s.%s(self%s)", className, methodName, prefixComma(params))
	if m.IsGenerator {
		p.line("%s", header)
		p.indent++
		p.line("return coroutine.wrap(function()")
		p.indent++
		p.emitFunctionBody(m)
		p.indent--
		p.line("end)")
		p.indent--
		p.line("end")
		return
	}
	if m.IsAsync {
		p.line("%s", header)
		p.indent++
		p.line("return coroutine.wrap(function()")
		p.indent++
		p.emitFunctionBody(m)
		p.indent--
		p.line("end)()")
		p.indent--
		p.line("end")
		return
	}
	p.line("%s", header)
	p.indent++
	p.emitFunctionBody(m)
	p.indent--
	p.line("end")
}

func prefixComma(params []string) string {
	if len(params) == 0 {
		return ""
	}
	return ", " + joinParams(params)
}

func joinParams(params []string) string {
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
