package killplot

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
)

// WriteKillsToFile writes a kills table in the column order the
// simulator has always used: ntests,atleast,atmost,exactly.
func WriteKillsToFile(rows []KillRow, fileName string) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.NTests),
			strconv.Itoa(r.AtLeast),
			strconv.Itoa(r.AtMost),
			strconv.Itoa(r.Exactly),
		})
	}
	return writeCSV(fileName, []string{ColNTests, ColAtLeast, ColAtMost, ColExactly}, records)
}

// WriteMutantKillsToFile writes one mutant,killedbynt line per mutant.
func WriteMutantKillsToFile(counts []int, fileName string) error {
	records := make([][]string, 0, len(counts))
	for m, k := range counts {
		records = append(records, []string{strconv.Itoa(m), strconv.Itoa(k)})
	}
	return writeCSV(fileName, []string{"mutant", "killedbynt"}, records)
}

func writeCSV(fileName string, header []string, records [][]string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return f.Close()
}

// SaveSimulation writes the per-mutant and the kills tables for o under
// dir, creating it if needed, and returns the path of the kills table.
func SaveSimulation(dir string, o SimOptions, counts []int) (string, error) {
	rows, err := Distribution(counts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	prefix := filepath.Join(dir, o.Prefix())
	if err := WriteMutantKillsToFile(counts, prefix+"mutants.csv"); err != nil {
		return "", err
	}
	killsFile := prefix + killsSuffix
	if err := WriteKillsToFile(rows, killsFile); err != nil {
		return "", err
	}
	return killsFile, nil
}
