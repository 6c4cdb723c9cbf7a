package disasm

// OpcodeName resolves an instruction's symbolic name. Table driven,
// per operand-count space, matching the standard opcode numbering.
func OpcodeName(form Form, count OperandCount, opcode uint8) string {
	if form == ExtForm {
		if name, ok := extNames[opcode]; ok {
			return name
		}
		return "unknown_ext"
	}
	var table map[uint8]string
	switch count {
	case OP0:
		table = op0Names
	case OP1:
		table = op1Names
	case OP2:
		table = op2Names
	case VAR:
		table = varNames
	}
	if name, ok := table[opcode]; ok {
		return name
	}
	return "unknown"
}

var op2Names = map[uint8]string{
	1: "je", 2: "jl", 3: "jg", 4: "dec_chk", 5: "inc_chk", 6: "jin",
	7: "test", 8: "or", 9: "and", 10: "test_attr", 11: "set_attr",
	12: "clear_attr", 13: "store", 14: "insert_obj", 15: "loadw",
	16: "loadb", 17: "get_prop", 18: "get_prop_addr", 19: "get_next_prop",
	20: "add", 21: "sub", 22: "mul", 23: "div", 24: "mod",
	25: "call_2s", 26: "call_2n", 27: "set_colour", 28: "throw",
}

var op1Names = map[uint8]string{
	0: "jz", 1: "get_sibling", 2: "get_child", 3: "get_parent",
	4: "get_prop_len", 5: "inc", 6: "dec", 7: "print_addr",
	8: "call_1s", 9: "remove_obj", 10: "print_obj", 11: "ret",
	12: "jump", 13: "print_paddr", 14: "load", 15: "not_or_call_1n",
}

var op0Names = map[uint8]string{
	0: "rtrue", 1: "rfalse", 2: "print", 3: "print_ret", 4: "nop",
	5: "save", 6: "restore", 7: "restart", 8: "ret_popped",
	9: "pop_or_catch", 10: "quit", 11: "new_line", 12: "show_status",
	13: "verify", 14: "extended", 15: "piracy",
}

var varNames = map[uint8]string{
	0: "call", 1: "storew", 2: "storeb", 3: "put_prop",
	4: "sread_or_aread", 5: "print_char", 6: "print_num", 7: "random",
	8: "push", 9: "pull", 10: "split_window", 11: "set_window",
	12: "call_vs2", 13: "erase_window", 14: "erase_line", 15: "set_cursor",
	16: "get_cursor", 17: "set_text_style", 18: "buffer_mode",
	19: "output_stream", 20: "input_stream", 21: "sound_effect",
	22: "read_char", 23: "scan_table", 24: "not", 25: "call_vn",
	26: "call_vn2", 27: "tokenise", 28: "encode_text", 29: "copy_table",
	30: "print_table", 31: "check_arg_count",
}

var extNames = map[uint8]string{
	0: "save", 1: "restore", 2: "log_shift", 3: "art_shift",
	4: "set_font", 9: "save_undo", 10: "restore_undo",
	11: "print_unicode", 12: "check_unicode", 13: "set_true_colour",
}

// opcodeStores reports whether this instruction is followed by a
// store-variable byte. A handful of opcodes change shape by version:
// 1OP 15 is `not` (stores) pre-v5 and `call_1n` (doesn't) from v5;
// 0OP 9 is `pop` (doesn't) pre-v5 and `catch` (stores) from v5; 0OP
// 5/6 (`save`/`restore`) only exist in this form pre-v5 and store a
// result from v4 onward; VAR 4 is `sread` (doesn't) pre-v5 and `aread`
// (stores) from v5.
func opcodeStores(form Form, count OperandCount, opcode uint8, version uint8) bool {
	if form == ExtForm {
		switch opcode {
		case 0, 1, 2, 3, 4, 9, 10, 12:
			return true
		}
		return false
	}
	switch count {
	case OP2:
		switch opcode {
		case 8, 9, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25:
			return true
		}
	case OP1:
		switch opcode {
		case 1, 2, 3, 4, 8, 14:
			return true
		case 15:
			return version < 5 // `not`
		}
	case OP0:
		switch opcode {
		case 9:
			return version >= 5 // `catch`
		case 5, 6:
			return version == 4 // `save`/`restore` store on v4 only
		}
	case VAR:
		switch opcode {
		case 0, 7, 12, 22, 23, 24:
			return true
		case 4:
			return version >= 5 // `aread`
		}
	}
	return false
}

// opcodeBranches mirrors opcodeStores for the branch-descriptor byte.
func opcodeBranches(form Form, count OperandCount, opcode uint8, version uint8) bool {
	if form == ExtForm {
		return false
	}
	switch count {
	case OP2:
		switch opcode {
		case 1, 2, 3, 4, 5, 6, 7, 10:
			return true
		}
	case OP1:
		switch opcode {
		case 0, 1, 2:
			return true
		}
	case OP0:
		switch opcode {
		case 13, 15: // verify, piracy
			return true
		case 5, 6:
			return version <= 3 // save/restore branch on v1-3 only
		}
	case VAR:
		return opcode == 23 || opcode == 31 // scan_table, check_arg_count
	}
	return false
}

// opcodeHasText reports whether the instruction is followed by an
// inline Z-string (print/print_ret).
func opcodeHasText(form Form, count OperandCount, opcode uint8) bool {
	return form != ExtForm && count == OP0 && (opcode == 2 || opcode == 3)
}
