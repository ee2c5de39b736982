package sequence

// codonOrder is the base order used to index the standard code table.
const codonOrder = "TCAG"

// standardCode lists the amino acid for every codon in TCAG x TCAG x TCAG order.
const standardCode = "FFLLSSSSYY**CC*WLLLLPPPPHHQQRRRRIIIMTTTTNNKKSSRRVVVVAAAADDEEGGGG"

var codonTable = buildCodonTable()

func buildCodonTable() map[string]byte {
	table := make(map[string]byte, 64)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				codon := string([]byte{codonOrder[i], codonOrder[j], codonOrder[k]})
				table[codon] = standardCode[i*16+j*4+k]
			}
		}
	}
	return table
}

// TranslateCodon returns the amino acid encoded by a three-base codon,
// or 'X' when the codon is not fully specified.
func TranslateCodon(codon string) byte {
	if aa, ok := codonTable[codon]; ok {
		return aa
	}
	return 'X'
}

// IsStopCodon reports whether codon is one of TAA, TAG or TGA.
func IsStopCodon(codon string) bool {
	return TranslateCodon(codon) == '*'
}

// ChangesAminoAcid reports whether substituting codon a with codon b changes
// the encoded amino acid.
func ChangesAminoAcid(a, b string) bool {
	return TranslateCodon(a) != TranslateCodon(b)
}
