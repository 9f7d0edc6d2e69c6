package interfaces

import "checkout_automation/domain/entities"

// TestData supplies the inputs of a run
type TestData interface {
	// ScenarioRows loads the ordered checkout rows
	ScenarioRows() ([]entities.ScenarioRow, error)

	// UserRecord loads the API scenario payload
	UserRecord() (entities.UserRecord, error)
}

// Config is a flat key to string lookup. Missing keys yield "".
type Config interface {
	Get(key string) string
}
