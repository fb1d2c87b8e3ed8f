package domain

import (
	recordsdto "cradle/internal/modules/records/dto"
)

// FlagPrefix versions the per-user "bootstrap done" marker. Bumping it makes
// every user upload once more.
const FlagPrefix = "cloud_bootstrap_v1"

func FlagKey(userID string) string {
	return FlagPrefix + ":" + userID
}

// PortableSettings are the user settings that travel with a snapshot.
type PortableSettings struct {
	GoalCount          int    `json:"goalCount"`
	MergeWindowMinutes int    `json:"mergeWindowMinutes"`
	DueDate            string `json:"dueDate"`
}

// Snapshot is the full payload of one upload. Collections are never null on
// the wire.
type Snapshot struct {
	Settings PortableSettings `json:"settings"`
	recordsdto.Export
}

func NewSnapshot(settings PortableSettings, export recordsdto.Export) Snapshot {
	if export.KickSessions == nil {
		export.KickSessions = []recordsdto.KickSession{}
	}
	if export.ContractionSessions == nil {
		export.ContractionSessions = []recordsdto.ContractionSession{}
	}
	if export.Contractions == nil {
		export.Contractions = []recordsdto.Contraction{}
	}
	if export.HospitalBagItems == nil {
		export.HospitalBagItems = []recordsdto.HospitalBagItem{}
	}
	if export.FeedingRecords == nil {
		export.FeedingRecords = []recordsdto.FeedingRecord{}
	}
	return Snapshot{Settings: settings, Export: export}
}

// Counts summarises a snapshot for logs and CLI output.
type Counts struct {
	KickSessions        int `json:"sessions"`
	ContractionSessions int `json:"contractionSessions"`
	Contractions        int `json:"contractions"`
	HospitalBagItems    int `json:"hospitalBagItems"`
	FeedingRecords      int `json:"feedingRecords"`
}

func (s Snapshot) Counts() Counts {
	return Counts{
		KickSessions:        len(s.KickSessions),
		ContractionSessions: len(s.ContractionSessions),
		Contractions:        len(s.Contractions),
		HospitalBagItems:    len(s.HospitalBagItems),
		FeedingRecords:      len(s.FeedingRecords),
	}
}
