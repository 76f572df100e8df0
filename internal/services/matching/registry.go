package matching

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BankRegistry resolves bank short codes to canonical names and maps known
// full interunit account strings to the short reference that counterparties
// quote in their narrations. It is injected into the engine so deployments
// can swap the table without code changes.
type BankRegistry struct {
	// Codes maps a short bank code (e.g. MTBL) to the canonical bank name.
	Codes map[string]string `yaml:"bank_codes"`
	// InterunitAccounts maps a full account string as it appears in a
	// narration to its short cross-reference (e.g. "MTBL#3858").
	InterunitAccounts map[string]string `yaml:"interunit_accounts"`
}

// DefaultBankRegistry returns the compiled-in registry covering the banks
// seen in production ledgers.
func DefaultBankRegistry() *BankRegistry {
	return &BankRegistry{
		Codes: map[string]string{
			"MTBL": "Mutual Trust Bank",
			"MDBL": "Midland Bank",
			"OBL":  "One Bank",
			"EBL":  "Eastern Bank",
			"BBL":  "BRAC Bank",
			"DBBL": "Dutch-Bangla Bank",
			"SCB":  "Standard Chartered Bank",
		},
		InterunitAccounts: map[string]string{
			"MTBL-SND-A/C-1310000003858":              "MTBL#3858",
			"Mutual Trust Bank Ltd-SND-002-0320004355": "MTBL#4355",
			"Midland Bank PLC-CD-A/C-0011-1050011026":  "MDBL#11026",
			"Midland-CE-0011-1060000331-CI":            "MDBL#00331",
			"One Bank-CD/A/C-0011020008826":            "OBL#8826",
			"Eastern Bank Limited-SND-1011060605503":   "EBL#5503",
		},
	}
}

// LoadBankRegistry reads a registry from a YAML file. Missing sections fall
// back to the defaults so a partial file only overrides what it names.
func LoadBankRegistry(path string) (*BankRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bank registry: %w", err)
	}
	var reg BankRegistry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse bank registry: %w", err)
	}
	defaults := DefaultBankRegistry()
	if len(reg.Codes) == 0 {
		reg.Codes = defaults.Codes
	}
	if len(reg.InterunitAccounts) == 0 {
		reg.InterunitAccounts = defaults.InterunitAccounts
	}
	return &reg, nil
}

// BankName resolves a bank code or full bank name to its canonical name.
// Unknown values are returned trimmed, so callers can persist whatever the
// narration carried.
func (r *BankRegistry) BankName(code string) string {
	if code == "" {
		return ""
	}
	trimmed := strings.TrimSpace(code)
	if name, ok := r.Codes[strings.ToUpper(trimmed)]; ok {
		return name
	}
	// Full bank names resolve to the canonical entry when one is known.
	// Containment handles captures that drag in surrounding words.
	for _, name := range r.sortedNames() {
		if strings.Contains(strings.ToUpper(trimmed), strings.ToUpper(name)) {
			return name
		}
	}
	return trimmed
}

// ShortRef returns the short cross-reference for the first configured full
// account string found inside the narration. Keys are scanned in sorted
// order so detection is deterministic.
func (r *BankRegistry) ShortRef(particulars string) (account, shortRef string, ok bool) {
	if particulars == "" {
		return "", "", false
	}
	for _, full := range r.sortedAccounts() {
		if strings.Contains(particulars, full) {
			return full, r.InterunitAccounts[full], true
		}
	}
	return "", "", false
}

func (r *BankRegistry) sortedAccounts() []string {
	keys := make([]string, 0, len(r.InterunitAccounts))
	for k := range r.InterunitAccounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *BankRegistry) sortedNames() []string {
	names := make([]string, 0, len(r.Codes))
	for _, v := range r.Codes {
		names = append(names, v)
	}
	sort.Strings(names)
	return names
}
