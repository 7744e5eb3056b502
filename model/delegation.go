package model

// ResolveCallWith returns the delegate method m calls through to. The lookup
// goes from m's owning object to the delegate it names with [Delegate=D] and
// from there to the method named by [CallWith=...]. It reports false when m
// has no call-with relation or any step of the lookup finds nothing.
func (ci *ComponentInterface) ResolveCallWith(m *Method) (*DelegateMethod, bool) {
	if m == nil || m.attributes.callWith == "" {
		return nil, false
	}
	obj := ci.objectsByName[m.objectName]
	if obj == nil || obj.delegateName == "" {
		return nil, false
	}
	d := ci.delegatesByName[obj.delegateName]
	if d == nil {
		return nil, false
	}
	dm := d.FindMethod(m.attributes.callWith)
	if dm == nil {
		return nil, false
	}
	return dm, true
}

// EffectiveReturnType returns the type a call to m produces. A method that
// calls through a delegate method returns exactly what that delegate method
// returns, whatever m itself declares. An unresolvable call-with relation
// yields nil.
func (ci *ComponentInterface) EffectiveReturnType(m *Method) Type {
	if m.attributes.callWith == "" {
		return m.returnType
	}
	dm, ok := ci.ResolveCallWith(m)
	if !ok {
		return nil
	}
	return dm.ReturnType()
}

// EffectiveThrowsType is EffectiveReturnType for the Throws attribute.
func (ci *ComponentInterface) EffectiveThrowsType(m *Method) Type {
	if m.attributes.callWith == "" {
		return m.ThrowsType()
	}
	dm, ok := ci.ResolveCallWith(m)
	if !ok {
		return nil
	}
	return dm.ThrowsType()
}

// EffectiveThrows is EffectiveThrowsType as an error name, "" for none.
func (ci *ComponentInterface) EffectiveThrows(m *Method) string {
	if t, ok := ci.EffectiveThrowsType(m).(ErrorType); ok {
		return t.Name
	}
	return ""
}
