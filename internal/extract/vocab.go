package extract

// Fixed vocabularies used by both parsers. Kept table-driven so each can be
// tested and extended independently.

// columnRoles maps a normalized header token to its column role.
var columnRoles = map[string]string{
	"item":     "item",
	"items":    "item",
	"name":     "item",
	"itemname": "item",
	"qty":      "quantity",
	"quantity": "quantity",
	"unit":     "unit",
	"price":    "price",
	"rate":     "price",
	"gst":      "gst",
	"tax":      "gst",
	"amount":   "amount",
	"amt":      "amount",
}

// unitTokens are measurement words that mark the quantity/unit split in an
// item line.
var unitTokens = map[string]bool{
	"nos": true, "no": true, "box": true, "rol": true, "roll": true,
	"pcs": true, "pkt": true, "pack": true, "set": true,
	"kg": true, "g": true, "gm": true, "ltr": true, "l": true,
	"litre": true, "meter": true, "m": true,
}

// totalLabel ranks a label phrase for total-amount resolution. Higher tiers
// win; within a tier the larger amount wins.
type totalLabel struct {
	label string
	tier  int
}

// totalLabels is checked in order; the first phrase contained in a line
// determines that line's tier.
var totalLabels = []totalLabel{
	{"grand total", 4},
	{"total amount", 4},
	{"total payable", 4},
	{"amount due", 4},
	{"amount payable", 4},
	{"net total", 4},
	{"net amount", 4},
	{"balance", 3},
	{"invoice total", 3},
	{"total", 3},
	{"sub total", 1},
	{"subtotal", 1},
}

// subtotalLabels locate the subtotal line for tax reconciliation.
var subtotalLabels = []string{"sub total", "subtotal"}

// vendorSkipWords disqualify a line from being the vendor name.
var vendorSkipWords = []string{"invoice", "original", "tax", "gst", "phone", "email"}

// gstTokens mark a document as GST-related even when no rate is stated.
var gstTokens = []string{"gst", "cgst", "sgst", "igst"}
