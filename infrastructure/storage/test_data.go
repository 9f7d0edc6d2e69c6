package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"checkout_automation/domain/entities"
	"checkout_automation/domain/interfaces"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type testData struct {
	rowsPath string
	userPath string
}

// checkoutFile is the layout of the checkout data file
type checkoutFile struct {
	TestData []entities.ScenarioRow `json:"testData" yaml:"testData"`
}

// NewTestData - creates test data storage reading checkout rows from
// rowsPath and the API payload from userPath. Files ending in .yaml or
// .yml are decoded as YAML, anything else as JSON.
func NewTestData(rowsPath, userPath string) interfaces.TestData {
	return &testData{
		rowsPath: rowsPath,
		userPath: userPath,
	}
}

// ScenarioRows - loads the checkout rows in file order
func (s *testData) ScenarioRows() ([]entities.ScenarioRow, error) {
	var file checkoutFile
	if err := decodeFile(s.rowsPath, &file); err != nil {
		return nil, err
	}
	if len(file.TestData) == 0 {
		return nil, fmt.Errorf("no rows under testData in %s", s.rowsPath)
	}
	return file.TestData, nil
}

// UserRecord - loads the user-creation payload
func (s *testData) UserRecord() (entities.UserRecord, error) {
	var record entities.UserRecord
	if err := decodeFile(s.userPath, &record); err != nil {
		return entities.UserRecord{}, err
	}
	return record, nil
}

func decodeFile(path string, v interface{}) error {
	if path == "" {
		return fmt.Errorf("no data file configured")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read test data: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
