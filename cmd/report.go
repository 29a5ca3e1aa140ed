package cmd

import (
	"encoding/json"
	"io/ioutil"

	"github.com/google/uuid"
	"github.com/rubenv/landmass/landmass"
)

type Report struct {
	RunID       string                `json:"run_id"`
	Input       string                `json:"input"`
	Stats       landmass.Stats        `json:"stats"`
	Counts      map[landmass.Kind]int `json:"counts"`
	Diagnostics []landmass.Diagnostic `json:"diagnostics"`
}

func newReport(input string, result *landmass.Result) *Report {
	return &Report{
		RunID:       uuid.New().String(),
		Input:       input,
		Stats:       result.Stats,
		Counts:      landmass.CountByKind(result.Diagnostics),
		Diagnostics: result.Diagnostics,
	}
}

func writeReport(filename, input string, result *landmass.Result) error {
	data, err := json.MarshalIndent(newReport(input, result), "", "  ")
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, data, 0644)
}
