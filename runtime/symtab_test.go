package runtime

import (
	"testing"
)

func TestNewSymTab(t *testing.T) {
	symtab := NewSymbolTable()
	if symtab == nil {
		t.Error("no symbol table created")
	}
}

func TestNewTag(t *testing.T) {
	symtab := NewSymbolTable()
	tag, _ := symtab.DefineTag("new-tag")
	if tag == nil {
		t.Error("no tag created for table")
	}
	tag.UData = 5
	if tag.UData != 5 {
		t.Errorf("UData does not work")
	}
}

func TestTwoTagsDistinct(t *testing.T) {
	symtab := NewSymbolTable()
	tag1, _ := symtab.DefineTag("new-tag1")
	tag2, _ := symtab.DefineTag("new-tag2")
	if tag1 == tag2 {
		t.Error("2 tags with equal name")
	}
}

func TestResolveTag(t *testing.T) {
	symtab := NewSymbolTable()
	tag, _ := symtab.DefineTag("new-tag")
	if s := symtab.ResolveTag(tag.Name()); s == nil {
		t.Error("cannot find stored tag in table")
	}
}

func TestDefineTagOverwrites(t *testing.T) {
	symtab := NewSymbolTable()
	tag, _ := symtab.DefineTag("new-tag")
	if _, old := symtab.DefineTag("new-tag"); old != tag {
		t.Error("tag should have been replaced")
	}
}

func TestSymTabBind(t *testing.T) {
	symtab := NewSymbolTable()
	tag := symtab.Bind("x", 1.5)
	if tag == nil || tag.Typ != FreeVarType || tag.UData != 1.5 {
		t.Error("binding should create a free-variable tag carrying the value")
	}
	symtab.Bind("x", 2.5) // re-binding updates in place
	if symtab.ResolveTag("x").UData != 2.5 {
		t.Error("re-binding should update the stored value")
	}
	if symtab.Size() != 1 {
		t.Errorf("table should hold 1 tag, holds %d", symtab.Size())
	}
}

func TestScopeUpsearch(t *testing.T) {
	scopep := NewScope("parent", nil)
	scope := NewScope("current", scopep)
	scopep.DefineTag("new-tag")
	if tag, where := scope.ResolveTag("new-tag"); tag != nil {
		t.Logf("found tag '%s' in scope %v, ok\n", tag.Name(), where)
		if where != scopep {
			t.Error("tag should be found in the parent scope")
		}
	} else {
		t.Fail()
	}
}

func TestScopeOperatorAndConstant(t *testing.T) {
	scope := NewScope("test", nil).
		Operator("f", func(args ...interface{}) (interface{}, error) {
			return nil, nil
		}).
		Constant("c", 7)
	if tag, _ := scope.ResolveTag("f"); tag == nil || tag.Typ != OperatorType {
		t.Error("operator tag should be defined with OperatorType")
	}
	tag, _ := scope.ResolveTag("c")
	if tag == nil || tag.Typ != ConstantType || tag.UData != 7 {
		t.Error("constant tag should be defined with ConstantType and its value")
	}
}

func TestFrameStack(t *testing.T) {
	fst := new(FrameStack)
	globals := fst.Push("globals")
	if !globals.IsRoot() {
		t.Error("first frame should be a root frame")
	}
	if fst.Globals() != globals || fst.Current() != globals {
		t.Error("single frame should be both globals and TOS")
	}
	nested := fst.Push("nested")
	if fst.Current() != nested || fst.Globals() != globals {
		t.Error("pushing should change TOS but not globals")
	}
	if popped := fst.Pop(); popped != nested {
		t.Error("pop should return the nested frame")
	}
	if fst.Current() != globals {
		t.Error("after popping, globals should be TOS again")
	}
}

func TestFrameResolveShadowing(t *testing.T) {
	fst := new(FrameStack)
	fst.Push("globals").Bind("x", 1)
	fst.Push("nested").Bind("x", 2)
	if tag := fst.resolve("x"); tag == nil || tag.UData != 2 {
		t.Error("resolution should find the top-most binding")
	}
	fst.Pop()
	if tag := fst.resolve("x"); tag == nil || tag.UData != 1 {
		t.Error("after popping, the global binding should be visible again")
	}
	if fst.resolve("y") != nil {
		t.Error("unbound names should resolve to nil")
	}
}
