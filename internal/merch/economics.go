package merch

// VATRate is the UK standard rate assumed to be included in every RRP.
const VATRate = 0.2

// ExVAT strips VAT from a VAT-inclusive price.
func ExVAT(rrp float64) float64 {
	return rrp / (1 + VATRate)
}

// MarginPercent returns profit as a percentage of the ex-VAT selling price.
// A zero or negative RRP has a margin of 0; selling below cost is negative.
func MarginPercent(cost, rrp float64) float64 {
	if rrp <= 0 {
		return 0
	}

	exVat := ExVAT(rrp)
	return (exVat - cost) / exVat * 100
}
