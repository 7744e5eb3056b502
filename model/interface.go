package model

// ComponentInterface is the validated semantic model of one interface
// description. It is populated by a Builder and read-only afterwards.
type ComponentInterface struct {
	namespace string
	version   string
	types     *typeUniverse

	records            []*Record
	enums              []*Enum
	errors             []*ErrorEnum
	functions          []*Function
	objects            []*Object
	delegates          []*Delegate
	callbackInterfaces []*CallbackInterface

	recordsByName            map[string]*Record
	enumsByName              map[string]*Enum
	errorsByName             map[string]*ErrorEnum
	functionsByName          map[string]*Function
	objectsByName            map[string]*Object
	delegatesByName          map[string]*Delegate
	callbackInterfacesByName map[string]*CallbackInterface
}

func newComponentInterface() *ComponentInterface {
	return &ComponentInterface{
		types:                    newTypeUniverse(),
		recordsByName:            make(map[string]*Record),
		enumsByName:              make(map[string]*Enum),
		errorsByName:             make(map[string]*ErrorEnum),
		functionsByName:          make(map[string]*Function),
		objectsByName:            make(map[string]*Object),
		delegatesByName:          make(map[string]*Delegate),
		callbackInterfacesByName: make(map[string]*CallbackInterface),
	}
}

// Namespace returns the namespace the interface was declared in.
func (ci *ComponentInterface) Namespace() string { return ci.namespace }

// Version returns the declared namespace version, or "".
func (ci *ComponentInterface) Version() string { return ci.version }

func (ci *ComponentInterface) RecordDefinitions() []*Record { return ci.records }
func (ci *ComponentInterface) GetRecordDefinition(name string) *Record {
	return ci.recordsByName[name]
}

func (ci *ComponentInterface) EnumDefinitions() []*Enum { return ci.enums }
func (ci *ComponentInterface) GetEnumDefinition(name string) *Enum {
	return ci.enumsByName[name]
}

func (ci *ComponentInterface) ErrorDefinitions() []*ErrorEnum { return ci.errors }
func (ci *ComponentInterface) GetErrorDefinition(name string) *ErrorEnum {
	return ci.errorsByName[name]
}

func (ci *ComponentInterface) FunctionDefinitions() []*Function { return ci.functions }
func (ci *ComponentInterface) GetFunctionDefinition(name string) *Function {
	return ci.functionsByName[name]
}

func (ci *ComponentInterface) ObjectDefinitions() []*Object { return ci.objects }
func (ci *ComponentInterface) GetObjectDefinition(name string) *Object {
	return ci.objectsByName[name]
}

func (ci *ComponentInterface) DelegateDefinitions() []*Delegate { return ci.delegates }
func (ci *ComponentInterface) GetDelegateDefinition(name string) *Delegate {
	return ci.delegatesByName[name]
}

func (ci *ComponentInterface) CallbackInterfaceDefinitions() []*CallbackInterface {
	return ci.callbackInterfaces
}
func (ci *ComponentInterface) GetCallbackInterfaceDefinition(name string) *CallbackInterface {
	return ci.callbackInterfacesByName[name]
}

// HasCallbackInterfaces reports whether any callback interface is declared.
// Backends use it to decide whether the callback runtime is needed at all.
func (ci *ComponentInterface) HasCallbackInterfaces() bool {
	return len(ci.callbackInterfaces) > 0
}

// Types returns every type used anywhere in the interface, ordered by
// canonical name.
func (ci *ComponentInterface) Types() []Type { return ci.types.knownTypes() }

// LookupType returns the type a user-defined name was declared as.
func (ci *ComponentInterface) LookupType(name string) (Type, bool) {
	return ci.types.getTypeDefinition(name)
}

func (ci *ComponentInterface) addRecordDefinition(r *Record) error {
	if _, ok := ci.recordsByName[r.name]; ok {
		return duplicate(r.name, "duplicate dictionary definition: %s", r.name)
	}
	ci.records = append(ci.records, r)
	ci.recordsByName[r.name] = r
	return nil
}

func (ci *ComponentInterface) addEnumDefinition(e *Enum) error {
	if _, ok := ci.enumsByName[e.name]; ok {
		return duplicate(e.name, "duplicate enum definition: %s", e.name)
	}
	ci.enums = append(ci.enums, e)
	ci.enumsByName[e.name] = e
	return nil
}

func (ci *ComponentInterface) addErrorDefinition(e *ErrorEnum) error {
	if _, ok := ci.errorsByName[e.name]; ok {
		return duplicate(e.name, "duplicate error definition: %s", e.name)
	}
	ci.errors = append(ci.errors, e)
	ci.errorsByName[e.name] = e
	return nil
}

func (ci *ComponentInterface) addFunctionDefinition(f *Function) error {
	if _, ok := ci.functionsByName[f.name]; ok {
		return duplicate(f.name, "duplicate function definition: %s", f.name)
	}
	ci.functions = append(ci.functions, f)
	ci.functionsByName[f.name] = f
	return nil
}

func (ci *ComponentInterface) addObjectDefinition(o *Object) error {
	if _, ok := ci.objectsByName[o.name]; ok {
		return duplicate(o.name, "duplicate interface definition: %s", o.name)
	}
	ci.objects = append(ci.objects, o)
	ci.objectsByName[o.name] = o
	return nil
}

func (ci *ComponentInterface) addDelegateDefinition(d *Delegate) error {
	if _, ok := ci.delegatesByName[d.name]; ok {
		return duplicate(d.name, "duplicate delegate definition: %s", d.name)
	}
	ci.delegates = append(ci.delegates, d)
	ci.delegatesByName[d.name] = d
	return nil
}

func (ci *ComponentInterface) addCallbackInterfaceDefinition(cb *CallbackInterface) error {
	if _, ok := ci.callbackInterfacesByName[cb.name]; ok {
		return duplicate(cb.name, "duplicate callback interface definition: %s", cb.name)
	}
	ci.callbackInterfaces = append(ci.callbackInterfaces, cb)
	ci.callbackInterfacesByName[cb.name] = cb
	return nil
}
