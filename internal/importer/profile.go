package importer

// Format selects the family of CSV layouts an upload is parsed as.
type Format string

const (
	// FormatNative is the layout written by the export endpoint.
	FormatNative Format = "pennywise"
	// FormatCGD covers the Caixa Geral de Depósitos account and card exports.
	FormatCGD Format = "cgd"
)

// amountMode determines how amount and type are extracted from a row.
type amountMode int

const (
	// amountTyped means an unsigned amount column plus an explicit type column.
	amountTyped amountMode = iota
	// amountSigned means one signed column (e.g. "Montante" with value "-10,00").
	amountSigned
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// numberStyle is the decimal notation used by a layout.
type numberStyle int

const (
	numberPlain numberStyle = iota
	// numberEuropean uses "." for thousands and "," for decimals: "1.234,56".
	numberEuropean
)

// Profile describes the column layout of one CSV export.
// Adding a new layout is just adding a new Profile to the profiles slice.
type Profile struct {
	Name        string
	Format      Format
	DateCol     string
	DateLayouts []string
	DescCol     string
	CategoryCol string // optional
	AmountMode  amountMode
	Numbers     numberStyle
	AmountCol   string // amountTyped and amountSigned
	TypeCol     string // amountTyped
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
	// Strict profiles reject malformed rows instead of skipping them as
	// footer noise.
	Strict bool
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	if p.CategoryCol != "" {
		cols = append(cols, p.CategoryCol)
	}

	switch p.AmountMode {
	case amountTyped:
		cols = append(cols, p.AmountCol, p.TypeCol)
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var cgdDateLayouts = []string{"02-01-2006"}

// profiles is the ordered list of layouts to try during auto-detection.
// More specific profiles should come first to avoid false matches.
var profiles = []Profile{
	{
		Name:        "pennywise",
		Format:      FormatNative,
		DateCol:     "Date",
		DateLayouts: []string{"2006-01-02", "2006-01-02T15:04:05Z07:00"},
		DescCol:     "Description",
		CategoryCol: "Category",
		AmountMode:  amountTyped,
		Numbers:     numberPlain,
		AmountCol:   "Amount",
		TypeCol:     "Type",
		Strict:      true,
	},
	{
		Name:        "cgd cartão",
		Format:      FormatCGD,
		DateCol:     "Data",
		DateLayouts: cgdDateLayouts,
		DescCol:     "Descrição",
		AmountMode:  amountSplit,
		Numbers:     numberEuropean,
		DebitCol:    "Débito",
		CreditCol:   "Crédito",
	},
	{
		Name:        "cgd extrato",
		Format:      FormatCGD,
		DateCol:     "Data mov.",
		DateLayouts: cgdDateLayouts,
		DescCol:     "Descrição",
		AmountMode:  amountSigned,
		Numbers:     numberEuropean,
		AmountCol:   "Movimento",
	},
	{
		Name:        "cgd conta",
		Format:      FormatCGD,
		DateCol:     "Data mov.",
		DateLayouts: cgdDateLayouts,
		DescCol:     "Descrição",
		AmountMode:  amountSigned,
		Numbers:     numberEuropean,
		AmountCol:   "Montante",
	},
}

// separator returns the field delimiter shared by every layout of a format.
func (f Format) separator() (rune, bool) {
	switch f {
	case FormatNative:
		return ',', true
	case FormatCGD:
		return ';', true
	}

	return 0, false
}
