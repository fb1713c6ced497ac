package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/markers", "200"))

	RecordAPIRequest("GET", "/api/markers", "200", 15*time.Millisecond)
	RecordAPIRequest("GET", "/api/markers", "200", 5*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/markers", "200"))
	assert.Equal(t, before+2, after)
}

func TestRecordStorageError(t *testing.T) {
	before := testutil.ToFloat64(StorageErrors.WithLabelValues("load", "markers"))

	RecordStorageError("load", "markers")

	assert.Equal(t, before+1, testutil.ToFloat64(StorageErrors.WithLabelValues("load", "markers")))
}

func TestRecordStorageOperation(t *testing.T) {
	RecordStorageOperation("file", "save", "keys", time.Millisecond)

	assert.Positive(t, testutil.CollectAndCount(StorageOperationDuration))
}

func TestRecordLogin(t *testing.T) {
	ok := testutil.ToFloat64(LoginAttempts.WithLabelValues("success"))
	bad := testutil.ToFloat64(LoginAttempts.WithLabelValues("failure"))

	RecordLogin(true)
	RecordLogin(false)
	RecordLogin(false)

	assert.Equal(t, ok+1, testutil.ToFloat64(LoginAttempts.WithLabelValues("success")))
	assert.Equal(t, bad+2, testutil.ToFloat64(LoginAttempts.WithLabelValues("failure")))
}
