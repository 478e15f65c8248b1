package output

import (
	"encoding/json"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
)

// ToJSON serializes a run summary.
func ToJSON(result *models.Result, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(result, "", "  ")
	}
	return json.Marshal(result)
}
