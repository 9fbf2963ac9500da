package hwio

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

type regTag struct {
	offset   int // -1 if not part of the bank
	size     int
	vsize    int
	reset    uint8
	unused   uint8
	readonly bool
	onwrite  string // write handler method name
}

func parseRegTag(field, tag string) (regTag, error) {
	rt := regTag{offset: -1}

	for opt := range strings.SplitSeq(tag, ",") {
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")

		num := func(bits int) (int, error) {
			if !hasVal {
				return 0, fmt.Errorf("%s: %q requires a value", field, key)
			}
			n, err := strconv.ParseUint(val, 0, bits)
			if err != nil {
				return 0, fmt.Errorf("%s: %s: %w", field, key, err)
			}
			return int(n), nil
		}

		var (
			n   int
			err error
		)
		switch key {
		case "offset":
			rt.offset, err = num(16)
		case "size":
			rt.size, err = num(17)
		case "vsize":
			rt.vsize, err = num(17)
		case "reset":
			n, err = num(8)
			rt.reset = uint8(n)
		case "unused":
			n, err = num(8)
			rt.unused = uint8(n)
		case "readonly":
			rt.readonly = true
		case "onwrite":
			rt.onwrite = "Write" + strings.ToUpper(field)
			if hasVal {
				rt.onwrite = val
			}
		default:
			return rt, fmt.Errorf("%s: unknown hwio option %q", field, key)
		}
		if err != nil {
			return rt, err
		}
	}
	return rt, nil
}

func method[T any](bank reflect.Value, name string) (T, error) {
	var zero T
	m := bank.MethodByName(name)
	if !m.IsValid() {
		return zero, fmt.Errorf("method %s not found on %s", name, bank.Type())
	}
	fn, ok := m.Interface().(T)
	if !ok {
		return zero, fmt.Errorf("method %s has type %s, want %T", name, m.Type(), zero)
	}
	return fn, nil
}

type taggedField struct {
	name string
	tag  regTag
	ptr  any // *Reg8 or *Mem
}

func taggedFields(bank any) ([]taggedField, error) {
	ptr := reflect.ValueOf(bank)
	if ptr.Kind() != reflect.Pointer || ptr.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("want pointer to struct, got %T", bank)
	}
	v := ptr.Elem()
	typ := v.Type()

	var fields []taggedField
	for i := range typ.NumField() {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		rt, err := parseRegTag(field.Name, tag)
		if err != nil {
			return nil, err
		}
		p := v.Field(i).Addr().Interface()
		switch p.(type) {
		case *Reg8, *Mem:
		default:
			return nil, fmt.Errorf("%s: hwio tag on unsupported type %s", field.Name, field.Type)
		}
		fields = append(fields, taggedField{name: field.Name, tag: rt, ptr: p})
	}
	return fields, nil
}

// InitRegs initializes the Reg8 and Mem fields of the structure pointed to
// by bank, following their "hwio" struct tag. Options are:
//
//	offset=0x20     Offset of the field in the bank, see Table.MapBank.
//	size=0x400      Size of a Mem, required unless Data is already set.
//	vsize=0x800     Mapped size of a Mem, defaults to its size.
//	reset=0x1B      Power-up value of a Reg8.
//	unused=0xF0     Unconnected bits of a Reg8.
//	readonly        CPU writes to a Reg8 are dropped.
//	onwrite[=Name]  Write handler method, defaults to Write<FIELDNAME>.
func InitRegs(bank any) error {
	fields, err := taggedFields(bank)
	if err != nil {
		return fmt.Errorf("InitRegs: %w", err)
	}
	recv := reflect.ValueOf(bank)

	for _, f := range fields {
		switch reg := f.ptr.(type) {
		case *Reg8:
			reg.Name = f.name
			reg.Unused = f.tag.unused
			reg.ReadOnly = f.tag.readonly
			reg.Set(f.tag.reset)
			if f.tag.onwrite != "" {
				if reg.OnWrite, err = method[func(uint8, uint8)](recv, f.tag.onwrite); err != nil {
					return err
				}
			}

		case *Mem:
			reg.Name = f.name
			if reg.Data == nil {
				if f.tag.size == 0 {
					return fmt.Errorf("%s: size is required for Mem", f.name)
				}
				reg.Data = make([]byte, f.tag.size)
			}
			reg.VSize = f.tag.vsize
			if f.tag.onwrite != "" {
				if reg.OnWrite, err = method[func(uint16, uint8)](recv, f.tag.onwrite); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// MustInitRegs is like InitRegs but panics on error.
func MustInitRegs(bank any) {
	if err := InitRegs(bank); err != nil {
		panic(err)
	}
}

type bankReg struct {
	offset uint16
	ptr    any
}

// bankRegs returns the fields of bank having an offset, in field order.
func bankRegs(bank any) ([]bankReg, error) {
	fields, err := taggedFields(bank)
	if err != nil {
		return nil, err
	}
	var regs []bankReg
	for _, f := range fields {
		if f.tag.offset < 0 {
			continue
		}
		regs = append(regs, bankReg{offset: uint16(f.tag.offset), ptr: f.ptr})
	}
	return regs, nil
}
