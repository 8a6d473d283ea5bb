// Package section implements the read and write codecs for each tagged
// section of a dta file: the header envelope, the offset map, the metadata
// vectors, the value-label dictionary and the strL heap.
//
// Every section is delimited by literal ASCII markers. Readers verify each
// marker at its expected position and fail with errs.ErrFormat otherwise.
package section

// Section markers in file order.
const (
	TagOpen  = "<stata_dta>"
	TagClose = "</stata_dta>"

	TagHeaderOpen     = "<header>"
	TagHeaderClose    = "</header>"
	TagReleaseOpen    = "<release>"
	TagReleaseClose   = "</release>"
	TagByteOrderOpen  = "<byteorder>"
	TagByteOrderClose = "</byteorder>"
	TagKOpen          = "<K>"
	TagKClose         = "</K>"
	TagNOpen          = "<N>"
	TagNClose         = "</N>"
	TagLabelOpen      = "<label>"
	TagLabelClose     = "</label>"
	TagTimestampOpen  = "<timestamp>"
	TagTimestampClose = "</timestamp>"

	TagMapOpen  = "<map>"
	TagMapClose = "</map>"

	TagVarTypesOpen   = "<variable_types>"
	TagVarTypesClose  = "</variable_types>"
	TagVarNamesOpen   = "<varnames>"
	TagVarNamesClose  = "</varnames>"
	TagSortListOpen   = "<sortlist>"
	TagSortListClose  = "</sortlist>"
	TagFormatsOpen    = "<formats>"
	TagFormatsClose   = "</formats>"
	TagVLNamesOpen    = "<value_label_names>"
	TagVLNamesClose   = "</value_label_names>"
	TagVarLabelsOpen  = "<variable_labels>"
	TagVarLabelsClose = "</variable_labels>"
	TagCharsOpen      = "<characteristics>"
	TagCharsClose     = "</characteristics>"
	TagChOpen         = "<ch>"
	TagChClose        = "</ch>"

	TagDataOpen  = "<data>"
	TagDataClose = "</data>"

	TagStrlsOpen  = "<strls>"
	TagStrlsClose = "</strls>"
	TagGSO        = "GSO"

	TagValueLabelsOpen  = "<value_labels>"
	TagValueLabelsClose = "</value_labels>"
	TagLblOpen          = "<lbl>"
	TagLblClose         = "</lbl>"
)
