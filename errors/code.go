package errors

// Code identifies a binary-format parse fault.
type Code uint16

const (
	CodeOK Code = iota
	CodeIllegalBeginPointer
	CodeIllegalWasmFileFormat
	CodeNoWasmSectionFound
	CodeInvalidSectionCanonicalOrder
	CodeInvalidSectionLength
	CodeIllegalSectionLength
	CodeNotEnoughSpace
	CodeIllegalSectionID
	CodeSizeExceedsMaxSizeT
	CodeDuplicateSection
	CodeForwardDependencyMissing
	CodeExceededParserLimit

	CodeInvalidCustomNameLength
	CodeIllegalCustomNameLength

	CodeInvalidTypeCount
	CodeIllegalTypePrefix
	CodeInvalidParameterLength
	CodeIllegalParameterLength
	CodeIllegalValueType
	CodeInvalidResultLength
	CodeIllegalResultLength
	CodeWasm1NotAllowMultiValue
	CodeTypeSectionResolvedExceeded
	CodeTypeSectionResolvedNotMatch

	CodeInvalidImportCount
	CodeImportSectionResolvedExceeded
	CodeImportSectionResolvedNotMatch
	CodeInvalidImportModuleNameLength
	CodeImportModuleNameLengthZero
	CodeImportModuleNameTooLength
	CodeInvalidImportExternNameLength
	CodeImportExternNameLengthZero
	CodeImportExternNameTooLength
	CodeIllegalUTF8Name
	CodeImportMissingImportType
	CodeIllegalImportdescPrefix
	CodeInvalidTypeIndex
	CodeIllegalTypeIndex
	CodeIllegalTableElementType
	CodeInvalidLimits
	CodeIllegalLimitsFlag
	CodeIllegalLimitsRange
	CodeIllegalGlobalMutability

	CodeInvalidFunctionCount
	CodeFunctionSectionResolvedExceeded
	CodeFunctionSectionResolvedNotMatch
	CodeInvalidTableCount
	CodeTableSectionResolvedNotMatch
	CodeInvalidMemoryCount
	CodeMemorySectionResolvedNotMatch
	CodeInvalidExportCount
	CodeExportSectionResolvedNotMatch
	CodeInvalidExportNameLength
	CodeExportNameTooLength
	CodeDuplicateExportName
	CodeIllegalExportKind
	CodeInvalidExportIndex
	CodeInvalidStartIndex
	CodeInvalidCodeCount
	CodeCodeSectionResolvedNotMatch
	CodeInvalidBodySize
	CodeIllegalBodySize
	CodeInvalidLocalCount
	CodeInvalidGlobalCount
	CodeInvalidElementCount
	CodeInvalidDataCount
	CodeSectionNotFullyConsumed

	CodeCodeNeDefinedFunc
	CodeIllegalStartIndex
	CodeIllegalExportIndex
	CodeWasm1MultipleMemories
	CodeWasm1MultipleTables

	codeCount
)

var codeNames = [codeCount]string{
	CodeOK:                              "ok",
	CodeIllegalBeginPointer:             "illegal_begin_pointer",
	CodeIllegalWasmFileFormat:           "illegal_wasm_file_format",
	CodeNoWasmSectionFound:              "no_wasm_section_found",
	CodeInvalidSectionCanonicalOrder:    "invalid_section_canonical_order",
	CodeInvalidSectionLength:            "invalid_section_length",
	CodeIllegalSectionLength:            "illegal_section_length",
	CodeNotEnoughSpace:                  "not_enough_space",
	CodeIllegalSectionID:                "illegal_section_id",
	CodeSizeExceedsMaxSizeT:             "size_exceeds_the_maximum_value_of_size_t",
	CodeDuplicateSection:                "duplicate_section",
	CodeForwardDependencyMissing:        "forward_dependency_missing",
	CodeExceededParserLimit:             "exceeded_parser_limit",
	CodeInvalidCustomNameLength:         "invalid_custom_name_length",
	CodeIllegalCustomNameLength:         "illegal_custom_name_length",
	CodeInvalidTypeCount:                "invalid_type_count",
	CodeIllegalTypePrefix:               "illegal_type_prefix",
	CodeInvalidParameterLength:          "invalid_parameter_length",
	CodeIllegalParameterLength:          "illegal_parameter_length",
	CodeIllegalValueType:                "illegal_value_type",
	CodeInvalidResultLength:             "invalid_result_length",
	CodeIllegalResultLength:             "illegal_result_length",
	CodeWasm1NotAllowMultiValue:         "wasm1_not_allow_multi_value",
	CodeTypeSectionResolvedExceeded:     "type_section_resolved_exceeded_the_actual_number",
	CodeTypeSectionResolvedNotMatch:     "type_section_resolved_not_match_the_actual_number",
	CodeInvalidImportCount:              "invalid_import_count",
	CodeImportSectionResolvedExceeded:   "import_section_resolved_exceeded_the_actual_number",
	CodeImportSectionResolvedNotMatch:   "import_section_resolved_not_match_the_actual_number",
	CodeInvalidImportModuleNameLength:   "invalid_import_module_name_length",
	CodeImportModuleNameLengthZero:      "import_module_name_length_cannot_be_zero",
	CodeImportModuleNameTooLength:       "import_module_name_too_length",
	CodeInvalidImportExternNameLength:   "invalid_import_extern_name_length",
	CodeImportExternNameLengthZero:      "import_extern_name_length_cannot_be_zero",
	CodeImportExternNameTooLength:       "import_extern_name_too_length",
	CodeIllegalUTF8Name:                 "illegal_utf8_name",
	CodeImportMissingImportType:         "import_missing_import_type",
	CodeIllegalImportdescPrefix:         "illegal_importdesc_prefix",
	CodeInvalidTypeIndex:                "invalid_type_index",
	CodeIllegalTypeIndex:                "illegal_type_index",
	CodeIllegalTableElementType:         "illegal_table_element_type",
	CodeInvalidLimits:                   "invalid_limits",
	CodeIllegalLimitsFlag:               "illegal_limits_flag",
	CodeIllegalLimitsRange:              "illegal_limits_range",
	CodeIllegalGlobalMutability:         "illegal_global_mutability",
	CodeInvalidFunctionCount:            "invalid_function_count",
	CodeFunctionSectionResolvedExceeded: "function_section_resolved_exceeded_the_actual_number",
	CodeFunctionSectionResolvedNotMatch: "function_section_resolved_not_match_the_actual_number",
	CodeInvalidTableCount:               "invalid_table_count",
	CodeTableSectionResolvedNotMatch:    "table_section_resolved_not_match_the_actual_number",
	CodeInvalidMemoryCount:              "invalid_memory_count",
	CodeMemorySectionResolvedNotMatch:   "memory_section_resolved_not_match_the_actual_number",
	CodeInvalidExportCount:              "invalid_export_count",
	CodeExportSectionResolvedNotMatch:   "export_section_resolved_not_match_the_actual_number",
	CodeInvalidExportNameLength:         "invalid_export_name_length",
	CodeExportNameTooLength:             "export_name_too_length",
	CodeDuplicateExportName:             "duplicate_export_name",
	CodeIllegalExportKind:               "illegal_export_kind",
	CodeInvalidExportIndex:              "invalid_export_index",
	CodeInvalidStartIndex:               "invalid_start_index",
	CodeInvalidCodeCount:                "invalid_code_count",
	CodeCodeSectionResolvedNotMatch:     "code_section_resolved_not_match_the_actual_number",
	CodeInvalidBodySize:                 "invalid_body_size",
	CodeIllegalBodySize:                 "illegal_body_size",
	CodeInvalidLocalCount:               "invalid_local_count",
	CodeInvalidGlobalCount:              "invalid_global_count",
	CodeInvalidElementCount:             "invalid_element_count",
	CodeInvalidDataCount:                "invalid_data_count",
	CodeSectionNotFullyConsumed:         "section_not_fully_consumed",
	CodeCodeNeDefinedFunc:               "code_ne_defined_func",
	CodeIllegalStartIndex:               "illegal_start_index",
	CodeIllegalExportIndex:              "illegal_export_index",
	CodeWasm1MultipleMemories:           "wasm1_multiple_memories",
	CodeWasm1MultipleTables:             "wasm1_multiple_tables",
}

var codeMessages = [codeCount]string{
	CodeOK:                              "no error",
	CodeIllegalBeginPointer:             "module begin is past module end",
	CodeIllegalWasmFileFormat:           "not a WebAssembly binary module",
	CodeNoWasmSectionFound:              "no section found after the module header",
	CodeInvalidSectionCanonicalOrder:    "section is out of canonical order",
	CodeInvalidSectionLength:            "cannot decode section length",
	CodeIllegalSectionLength:            "section length exceeds the module",
	CodeNotEnoughSpace:                  "not enough bytes left",
	CodeIllegalSectionID:                "unknown section id",
	CodeSizeExceedsMaxSizeT:             "length exceeds the host address space",
	CodeDuplicateSection:                "section appears more than once",
	CodeForwardDependencyMissing:        "a section this section depends on is missing",
	CodeExceededParserLimit:             "declared count exceeds the parser limit",
	CodeInvalidCustomNameLength:         "cannot decode custom section name length",
	CodeIllegalCustomNameLength:         "custom section name exceeds the section",
	CodeInvalidTypeCount:                "cannot decode type count",
	CodeIllegalTypePrefix:               "unknown type constructor",
	CodeInvalidParameterLength:          "cannot decode parameter count",
	CodeIllegalParameterLength:          "parameter count exceeds the section",
	CodeIllegalValueType:                "unknown value type",
	CodeInvalidResultLength:             "cannot decode result count",
	CodeIllegalResultLength:             "result count exceeds the section",
	CodeWasm1NotAllowMultiValue:         "multiple results require the multi-value feature",
	CodeTypeSectionResolvedExceeded:     "type section holds more entries than declared",
	CodeTypeSectionResolvedNotMatch:     "type section holds fewer entries than declared",
	CodeInvalidImportCount:              "cannot decode import count",
	CodeImportSectionResolvedExceeded:   "import section holds more entries than declared",
	CodeImportSectionResolvedNotMatch:   "import section holds fewer entries than declared",
	CodeInvalidImportModuleNameLength:   "cannot decode import module name length",
	CodeImportModuleNameLengthZero:      "import module name is empty",
	CodeImportModuleNameTooLength:       "import module name exceeds the section",
	CodeInvalidImportExternNameLength:   "cannot decode import name length",
	CodeImportExternNameLengthZero:      "import name is empty",
	CodeImportExternNameTooLength:       "import name exceeds the section",
	CodeIllegalUTF8Name:                 "name is not valid UTF-8",
	CodeImportMissingImportType:         "import descriptor is missing",
	CodeIllegalImportdescPrefix:         "unknown import descriptor kind",
	CodeInvalidTypeIndex:                "cannot decode type index",
	CodeIllegalTypeIndex:                "type index out of range",
	CodeIllegalTableElementType:         "table element type must be funcref",
	CodeInvalidLimits:                   "cannot decode limits",
	CodeIllegalLimitsFlag:               "unknown limits flag",
	CodeIllegalLimitsRange:              "limits minimum exceeds maximum",
	CodeIllegalGlobalMutability:         "unknown global mutability flag",
	CodeInvalidFunctionCount:            "cannot decode function count",
	CodeFunctionSectionResolvedExceeded: "function section holds more entries than declared",
	CodeFunctionSectionResolvedNotMatch: "function section holds fewer entries than declared",
	CodeInvalidTableCount:               "cannot decode table count",
	CodeTableSectionResolvedNotMatch:    "table section entry count mismatch",
	CodeInvalidMemoryCount:              "cannot decode memory count",
	CodeMemorySectionResolvedNotMatch:   "memory section entry count mismatch",
	CodeInvalidExportCount:              "cannot decode export count",
	CodeExportSectionResolvedNotMatch:   "export section entry count mismatch",
	CodeInvalidExportNameLength:         "cannot decode export name length",
	CodeExportNameTooLength:             "export name exceeds the section",
	CodeDuplicateExportName:             "export name appears more than once",
	CodeIllegalExportKind:               "unknown export kind",
	CodeInvalidExportIndex:              "cannot decode export index",
	CodeInvalidStartIndex:               "cannot decode start function index",
	CodeInvalidCodeCount:                "cannot decode code count",
	CodeCodeSectionResolvedNotMatch:     "code section entry count mismatch",
	CodeInvalidBodySize:                 "cannot decode function body size",
	CodeIllegalBodySize:                 "function body exceeds the section",
	CodeInvalidLocalCount:               "cannot decode local declarations",
	CodeInvalidGlobalCount:              "cannot decode global count",
	CodeInvalidElementCount:             "cannot decode element segment count",
	CodeInvalidDataCount:                "cannot decode data segment count",
	CodeSectionNotFullyConsumed:         "section has trailing bytes",
	CodeCodeNeDefinedFunc:               "code entries do not match defined functions",
	CodeIllegalStartIndex:               "start function index out of range",
	CodeIllegalExportIndex:              "export index out of range",
	CodeWasm1MultipleMemories:           "at most one memory is allowed",
	CodeWasm1MultipleTables:             "at most one table is allowed",
}

func (c Code) String() string {
	if c < codeCount {
		return codeNames[c]
	}
	return "unknown"
}

// Message returns a human-readable description of the code.
func (c Code) Message() string {
	if c < codeCount {
		return codeMessages[c]
	}
	return "unknown error"
}
