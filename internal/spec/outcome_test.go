package spec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnyFatal(t *testing.T) {
	outcomes := []Outcome{
		{Target: "role.R", Status: StatusSuccess},
		{Target: "stage.S", Status: StatusFailed, Err: errors.New("quota")},
	}
	assert.False(t, AnyFatal(outcomes), "non-fatal failures do not trip the flag")

	outcomes = append(outcomes, Outcome{Target: "database.D", Status: StatusFailed, Fatal: true})
	assert.True(t, AnyFatal(outcomes))
}

func TestSucceeded(t *testing.T) {
	assert.True(t, Outcome{Status: StatusSuccess}.Succeeded())
	assert.False(t, Outcome{Status: StatusFailed}.Succeeded())
	assert.False(t, Outcome{Status: StatusSkipped}.Succeeded())
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus([]Outcome{
		{Status: StatusSuccess},
		{Status: StatusSuccess},
		{Status: StatusFailed},
		{Status: StatusSkipped},
	})
	assert.Equal(t, 2, counts[StatusSuccess])
	assert.Equal(t, 1, counts[StatusFailed])
	assert.Equal(t, 1, counts[StatusSkipped])
}

func TestResourceAddr(t *testing.T) {
	r := &Resource{Kind: KindStage, Name: "DB.SCH.NOTEBOOKS"}
	assert.Equal(t, "stage.DB.SCH.NOTEBOOKS", r.Addr())
}

func TestKindCreateMode(t *testing.T) {
	assert.Equal(t, CreateIfAbsent, KindStage.CreateMode())
	assert.Equal(t, CreateIfAbsent, KindComputePool.CreateMode())
	assert.Equal(t, CreateOrReplace, KindWarehouse.CreateMode())
	assert.Equal(t, CreateOrReplace, KindNotebook.CreateMode())
}

func TestKindPrerequisite(t *testing.T) {
	assert.True(t, KindRole.Prerequisite())
	assert.True(t, KindDatabase.Prerequisite())
	assert.True(t, KindSchema.Prerequisite())
	assert.False(t, KindModel.Prerequisite())
	assert.False(t, KindStage.Prerequisite())
}

func TestArtifactRefFileName(t *testing.T) {
	ref := ArtifactRef{DestPath: "@DB.SCH.NOTEBOOKS/01_ingest_data.ipynb"}
	assert.Equal(t, "01_ingest_data.ipynb", ref.FileName())
}
