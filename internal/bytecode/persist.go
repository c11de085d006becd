package bytecode

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	"github.com/forge-lang/forge/internal/srcloc"
	"github.com/forge-lang/forge/internal/token"
	"github.com/forge-lang/forge/internal/value"
)

// Program is the persisted form of a compiled bytecode block, per
// spec.md §6: "a compiled bytecode block is a flat sequence of (opcode,
// Value, optional location) triples; a Value in a persisted block is
// limited to the non-shared variants ... plus nested bytecode." Encoding
// uses encoding/gob, since none of the example repos this module is
// grounded on pull in a third-party serializer for a private, Go-to-Go
// wire format (see DESIGN.md).
type Program struct {
	Instructions []wireInstruction
}

type wireInstruction struct {
	Op      Opcode
	Operand wireValue
	HasLoc  bool
	Path    string
	Line    int
	Column  int
}

type wireValue struct {
	Kind  value.Kind
	I     int64
	F     float64
	B     bool
	S     string
	Block []wireInstruction
}

// ToProgram converts a resolved instruction sequence into its persistable
// form. It fails if code contains a shared-variant operand (array, table,
// buffer, struct, thread id), which spec.md §6 excludes from the
// persisted format.
func ToProgram(code []Instruction) (*Program, error) {
	wire, err := toWireInstructions(code)
	if err != nil {
		return nil, err
	}
	return &Program{Instructions: wire}, nil
}

func toWireInstructions(code []Instruction) ([]wireInstruction, error) {
	out := make([]wireInstruction, len(code))
	for i, instr := range code {
		wv, err := toWireValue(instr.Operand)
		if err != nil {
			return nil, fmt.Errorf("instruction %d (%s): %w", i, instr.Op, err)
		}
		w := wireInstruction{Op: instr.Op, Operand: wv}
		if instr.Location != nil {
			w.HasLoc = true
			w.Path = instr.Location.Path
			w.Line = instr.Location.Line
			w.Column = instr.Location.Column
		}
		out[i] = w
	}
	return out, nil
}

func toWireValue(v value.Value) (wireValue, error) {
	if v == nil {
		return wireValue{Kind: value.KindNone}, nil
	}
	switch x := v.(type) {
	case value.None:
		return wireValue{Kind: value.KindNone}, nil
	case value.Bool:
		return wireValue{Kind: value.KindBool, B: bool(x)}, nil
	case value.Int:
		return wireValue{Kind: value.KindInt, I: int64(x)}, nil
	case value.Float:
		return wireValue{Kind: value.KindFloat, F: float64(x)}, nil
	case value.Str:
		return wireValue{Kind: value.KindString, S: string(x)}, nil
	case value.TokenValue:
		return wireValue{Kind: value.KindToken, S: x.Token.Text, I: int64(x.Token.Hint)}, nil
	case *value.Block:
		inner, err := toWireInstructions(x.Code)
		if err != nil {
			return wireValue{}, err
		}
		return wireValue{Kind: value.KindBlock, Block: inner}, nil
	default:
		return wireValue{}, fmt.Errorf("cannot persist shared-variant value of kind %s", v.Kind())
	}
}

// ToInstructions converts a persisted Program back into an executable
// instruction sequence.
func (p *Program) ToInstructions() []Instruction {
	return fromWireInstructions(p.Instructions)
}

func fromWireInstructions(wire []wireInstruction) []Instruction {
	out := make([]Instruction, len(wire))
	for i, w := range wire {
		instr := Instruction{Op: w.Op, Operand: fromWireValue(w.Operand)}
		if w.HasLoc {
			loc := srcloc.Location{Path: w.Path, Line: w.Line, Column: w.Column}
			instr.Location = &loc
		}
		out[i] = instr
	}
	return out
}

func fromWireValue(w wireValue) value.Value {
	switch w.Kind {
	case value.KindBool:
		return value.Bool(w.B)
	case value.KindInt:
		return value.Int(w.I)
	case value.KindFloat:
		return value.Float(w.F)
	case value.KindString:
		return value.Str(w.S)
	case value.KindToken:
		return value.TokenValue{Token: token.Token{Hint: token.Hint(w.I), Text: w.S}}
	case value.KindBlock:
		return &value.Block{Code: fromWireInstructions(w.Block)}
	default:
		return value.None{}
	}
}

// Encode gob-encodes the program to w.
func (p *Program) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(p)
}

// DecodeProgram gob-decodes a Program previously written by Encode.
func DecodeProgram(r io.Reader) (*Program, error) {
	var p Program
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode bytecode program: %w", err)
	}
	return &p, nil
}

// Marshal is a convenience wrapper returning the encoded bytes directly.
func Marshal(code []Instruction) ([]byte, error) {
	prog, err := ToProgram(code)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := prog.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal is a convenience wrapper decoding bytes produced by Marshal
// directly into an instruction sequence.
func Unmarshal(data []byte) ([]Instruction, error) {
	prog, err := DecodeProgram(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return prog.ToInstructions(), nil
}
