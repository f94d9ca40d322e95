package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordType identifies a kind of financial record that receives an allocated identifier.
type RecordType string

const (
	RecordContribution RecordType = "contribution"
	RecordTransaction  RecordType = "transaction"
	RecordExpenditure  RecordType = "expenditure"
)

// SequenceDigits is the zero padded width of the sequence part of record identifiers.
const SequenceDigits = 6

// MaxSequence is the largest sequence that fits SequenceDigits.
const MaxSequence = 999999

// Prefix returns the identifier prefix for the record type.
func (t RecordType) Prefix() (string, error) {
	switch t {
	case RecordContribution:
		return "MC", nil
	case RecordTransaction:
		return "TR", nil
	case RecordExpenditure:
		return "EX", nil
	default:
		return "", fmt.Errorf("unknown record type %q", t)
	}
}

// IdentifierLabel is the user facing name of the identifier field.
func (t RecordType) IdentifierLabel() string {
	if t == RecordExpenditure {
		return "voucher number"
	}
	return "receipt number"
}

// Table returns the table that stores records of this type.
func (t RecordType) Table() string {
	switch t {
	case RecordContribution:
		return "contributions"
	case RecordTransaction:
		return "transactions"
	default:
		return "expenditures"
	}
}

var branchCodePattern = regexp.MustCompile(`^[A-Z0-9]{2}$`)

// IsValidBranchCode reports whether code is a two character branch code.
func IsValidBranchCode(code string) bool {
	return branchCodePattern.MatchString(code)
}

// FormatRecordIdentifier renders {branch}-{prefix}-{year}-{sequence}.
func FormatRecordIdentifier(branchCode, prefix string, year int, sequence int64) string {
	return fmt.Sprintf("%s-%s-%04d-%0*d", branchCode, prefix, year, SequenceDigits, sequence)
}

var recordIdentifierPattern = regexp.MustCompile(`^([A-Z0-9]{2})-(MC|TR|EX)-(\d{4})-(\d{6})$`)

// RecordIdentifier is the parsed form of an allocated identifier.
type RecordIdentifier struct {
	BranchCode string
	Prefix     string
	Year       int
	Sequence   int64
}

// ParseRecordIdentifier parses an identifier produced by FormatRecordIdentifier.
func ParseRecordIdentifier(id string) (RecordIdentifier, bool) {
	m := recordIdentifierPattern.FindStringSubmatch(id)
	if m == nil {
		return RecordIdentifier{}, false
	}
	year, _ := strconv.Atoi(m[3])
	seq, err := strconv.ParseInt(m[4], 10, 64)
	if err != nil {
		return RecordIdentifier{}, false
	}
	return RecordIdentifier{BranchCode: m[1], Prefix: m[2], Year: year, Sequence: seq}, true
}

// SequenceAfterPrefix extracts the sequence from the text following the last "-{prefix}-" in id,
// expecting "{year}-{sequence}". Identifiers that do not carry the prefix, or whose suffix is not
// numeric, yield ok=false and allocation restarts from 1.
func SequenceAfterPrefix(id, prefix string) (int64, bool) {
	marker := "-" + prefix + "-"
	idx := strings.LastIndex(id, marker)
	if idx < 0 {
		return 0, false
	}
	rest := id[idx+len(marker):]
	parts := strings.Split(rest, "-")
	seq, err := strconv.ParseInt(parts[len(parts)-1], 10, 64)
	if err != nil || seq < 0 {
		return 0, false
	}
	return seq, true
}

// EntityKind identifies an entity that receives a short code.
type EntityKind string

const (
	EntitySupplier        EntityKind = "supplier"
	EntityAsset           EntityKind = "asset"
	EntityContract        EntityKind = "contract"
	EntityRevenueHead     EntityKind = "revenue_head"
	EntityExpenditureHead EntityKind = "expenditure_head"
)

// EntityCodeSpec describes how codes of an entity kind are formatted.
type EntityCodeSpec struct {
	Prefix        string
	Digits        int
	BranchScoped  bool
	Table         string
	HeadKindValue string
}

var entityCodeSpecs = map[EntityKind]EntityCodeSpec{
	EntitySupplier:        {Prefix: "SUP", Digits: 4, Table: "suppliers"},
	EntityAsset:           {Prefix: "AST", Digits: 4, BranchScoped: true, Table: "assets"},
	EntityContract:        {Prefix: "CTR", Digits: 4, BranchScoped: true, Table: "contracts"},
	EntityRevenueHead:     {Prefix: "RH", Digits: 3, Table: "account_heads", HeadKindValue: string(HeadRevenue)},
	EntityExpenditureHead: {Prefix: "EH", Digits: 3, Table: "account_heads", HeadKindValue: string(HeadExpenditure)},
}

// CodeSpec returns the formatting rules for kind.
func (k EntityKind) CodeSpec() (EntityCodeSpec, error) {
	spec, ok := entityCodeSpecs[k]
	if !ok {
		return EntityCodeSpec{}, fmt.Errorf("unknown entity kind %q", k)
	}
	return spec, nil
}

// FormatEntityCode renders a code such as SUP0007 or 01-AST0012.
func FormatEntityCode(spec EntityCodeSpec, branchCode string, n int64) string {
	code := fmt.Sprintf("%s%0*d", spec.Prefix, spec.Digits, n)
	if spec.BranchScoped {
		return branchCode + "-" + code
	}
	return code
}
