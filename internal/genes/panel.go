package genes

// GeneInfo describes one gene of the prediction panel.
type GeneInfo struct {
	Symbol      string  `json:"symbol"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Importance  float64 `json:"importance"`
}

// panel is the fixed feature order expected by the scaler and classifier
// artifacts. Do not reorder without retraining.
var panel = []string{
	"TESPA1", "SLC17A7", "LINC00507", "KCNIP1", "ANKRD33B",
	"LINC00508", "SFTA1P", "LINC00152", "TBR1", "NPTX1",
}

// importances holds the display-only Gini importance values for the
// informational chart. They are not read from the model artifact.
var importances = []float64{0.25, 0.18, 0.15, 0.10, 0.08, 0.07, 0.05, 0.04, 0.03, 0.02}

var descriptions = map[string]GeneInfo{
	"TESPA1": {
		Symbol: "TESPA1",
		Title:  "TESPA1 - Tetraspanin 1",
		Description: "TESPA1 is involved in neurotransmitter regulation and plays a critical role in neuronal function. " +
			"It is associated with synaptic vesicle formation and the regulation of synaptic activity, making it an " +
			"important gene for the E1 gene cluster prediction.",
	},
	"SLC17A7": {
		Symbol: "SLC17A7",
		Title:  "SLC17A7 - Solute Carrier Family 17 Member 7",
		Description: "SLC17A7 is involved in the transport of neurotransmitters in synaptic vesicles. It plays an " +
			"essential role in synaptic signaling by regulating the uptake of neurotransmitters like glutamate and " +
			"GABA, which are crucial for proper neuronal communication.",
	},
	"LINC00507": {
		Symbol: "LINC00507",
		Title:  "LINC00507 - Long Intergenic Non-Protein Coding RNA 507",
		Description: "LINC00507 is a long non-coding RNA that is involved in regulating gene expression at the " +
			"transcriptional level. It is associated with cellular processes, including cell differentiation and " +
			"apoptosis, and may play a regulatory role in brain development.",
	},
	"KCNIP1": {
		Symbol: "KCNIP1",
		Title:  "KCNIP1 - Potassium Channel Interacting Protein 1",
		Description: "KCNIP1 encodes a protein that modulates neuronal excitability, synaptic plasticity, and " +
			"synaptic transmission. This gene is crucial for maintaining proper neural signaling and memory processes.",
	},
	"ANKRD33B": {
		Symbol: "ANKRD33B",
		Title:  "ANKRD33B - Ankyrin Repeat Domain 33B",
		Description: "ANKRD33B is implicated in neurodevelopment and plays a role in synaptic signaling. It is " +
			"involved in regulating the growth and differentiation of neurons, making it essential for brain " +
			"function and development.",
	},
	"LINC00508": {
		Symbol: "LINC00508",
		Title:  "LINC00508 - Long Intergenic Non-Protein Coding RNA 508",
		Description: "LINC00508 is a long non-coding RNA that plays a significant role in regulating gene expression " +
			"and cellular processes. It is believed to participate in neuronal differentiation and could influence " +
			"neurological disorders.",
	},
	"SFTA1P": {
		Symbol: "SFTA1P",
		Title:  "SFTA1P - Surfactant Associated 1 Pseudogene",
		Description: "SFTA1P is involved in pulmonary surfactant regulation and may have implications for " +
			"neurological diseases as well. Its role in gene expression regulation has been linked to neural " +
			"development and function.",
	},
	"LINC00152": {
		Symbol: "LINC00152",
		Title:  "LINC00152 - Long Intergenic Non-Protein Coding RNA 152",
		Description: "LINC00152 is a long non-coding RNA that regulates gene expression. It has been linked to " +
			"various biological processes, including cellular signaling and brain development, making it important " +
			"in neurodevelopmental studies.",
	},
	"TBR1": {
		Symbol: "TBR1",
		Title:  "TBR1 - T-Box Brain Transcription Factor 1",
		Description: "TBR1 is a transcription factor involved in the development of neurons and their organization " +
			"in the brain. It plays a critical role in neurodevelopment and is associated with neurological disorders.",
	},
	"NPTX1": {
		Symbol: "NPTX1",
		Title:  "NPTX1 - Neuronal Pentraxin 1",
		Description: "NPTX1 is involved in synaptic signaling and plasticity. It plays an important role in the " +
			"modulation of synaptic transmission, learning, and memory. This gene is essential for cognitive " +
			"function and neuronal health.",
	},
}

// Panel returns the gene symbols in model feature order.
func Panel() []string {
	out := make([]string, len(panel))
	copy(out, panel)
	return out
}

// Count returns the number of features in the panel.
func Count() int {
	return len(panel)
}

// Index returns the feature index of a symbol, or -1 if it is not part
// of the panel.
func Index(symbol string) int {
	for i, s := range panel {
		if s == symbol {
			return i
		}
	}
	return -1
}

// Importances returns the display importance table in panel order.
func Importances() []GeneInfo {
	out := make([]GeneInfo, len(panel))
	for i, symbol := range panel {
		info := descriptions[symbol]
		info.Importance = importances[i]
		out[i] = info
	}
	return out
}

// Describe returns the informational entry for a single gene.
func Describe(symbol string) (GeneInfo, bool) {
	info, ok := descriptions[symbol]
	if !ok {
		return GeneInfo{}, false
	}
	idx := Index(symbol)
	info.Importance = importances[idx]
	return info, true
}
