package service

import "wrongness-portfolio/internal/model"

// 首次启动、存储里没有对应 key 时使用的示例数据

func seedArtifacts() []model.Artifact {
	return []model.Artifact{
		{
			ID:          "WP-001",
			Title:       "I Was Wrong About Debugging",
			Domain:      "Software Engineering",
			Category:    "Process",
			WrongModel:  "The error message points to the problem's source. I assumed a Python ImportError meant the package was missing.",
			Signal:      "The package was confirmed to be installed in the virtual environment, yet the error persisted. This indicated the issue was with the environment or path, not the package itself.",
			Rebuild:     "Adopt a \"System-First\" protocol. Before debugging application code, always verify the integrity and configuration of the execution environment (e.g., virtual environment activation, system path, dependencies).",
			Status:      model.ArtifactEvergreen,
			Confidence:  map[string]model.Confidence{},
			DateCreated: "2023-10-01",
		},
	}
}

func seedDatasets() []model.Dataset {
	return []model.Dataset{
		{
			ID: "DS-001", Name: "Google SRE Postmortems", Type: "Postmortem",
			Relevance: 5, SignalDensity: 5, Transferability: 4,
			Status: model.DatasetInProgress, TimeInvested: 3,
			ProtocolsExtracted: 5, ProtocolsValidated: 2,
			URL: "https://sre.google/books/",
		},
		{
			ID: "DS-002", Name: "Stack Overflow - Python ImportErrors", Type: "Q&A",
			Relevance: 5, SignalDensity: 3, Transferability: 4,
			Status: model.DatasetPlanned,
			URL:    "https://stackoverflow.com",
		},
		{
			ID: "DS-003", Name: "GitLab Incident Reports", Type: "Postmortem",
			Relevance: 4, SignalDensity: 4, Transferability: 5,
			Status: model.DatasetPlanned,
			URL:    "https://gitlab.com",
		},
	}
}

func seedMiningQueue() []model.MiningTask {
	return []model.MiningTask{
		{
			ID: "MQ-001", Source: "Google SRE Postmortems",
			Target:   "Extract 5 environment-related errors",
			Priority: model.PriorityHigh, Deadline: "2023-10-08",
			Status: model.MiningActive, Progress: 60,
		},
		{
			ID: "MQ-002", Source: "Stack Overflow",
			Target:   "Validate WP-001 Protocol 2",
			Priority: model.PriorityMedium, Deadline: "2023-10-10",
			Status: model.MiningPending,
		},
	}
}

func seedProtocols() []model.Protocol {
	return []model.Protocol{
		{
			ID: "P-001", Name: "Triage the System First", Category: model.CategoryDiagnostic,
			ArtifactSource: "WP-001", TimesApplied: 12, SuccessRate: 83, AvgTimeSaved: 35,
			Confidence: model.ConfidenceHigh,
		},
		{
			ID: "P-002", Name: "Mandate High-Fidelity Data", Category: model.CategoryDiagnostic,
			ArtifactSource: "WP-001", TimesApplied: 15, SuccessRate: 93, AvgTimeSaved: 25,
			Confidence: model.ConfidenceHigh,
		},
		{
			ID: "P-003", Name: "Isolate via Strategic Retreat", Category: model.CategoryProblemSolving,
			ArtifactSource: "WP-001", TimesApplied: 8, SuccessRate: 75, AvgTimeSaved: 60,
			Confidence: model.ConfidenceMedium,
		},
	}
}
