package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WritePluginScript creates an executable shell script which announces
// given capacity to $PROVIDER_ENDPOINT_DIR/capacity.json and sleeps
// until killed. Returns absolute script path.
func WritePluginScript(t *testing.T, dir, name string, capacity map[string]string) (res string) {
	t.Helper()
	payload, err := json.Marshal(capacity)
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	res = filepath.Join(dir, name)
	body := fmt.Sprintf("#!/bin/sh\necho '%s' > \"$PROVIDER_ENDPOINT_DIR/capacity.json\"\nwhile true; do sleep 1; done\n", string(payload))
	if err = os.WriteFile(res, []byte(body), 0755); err != nil {
		t.Error(err)
		t.FailNow()
	}
	return
}

// WriteBrokenPluginScript creates an executable script which exits
// immediately without announcing capacity.
func WriteBrokenPluginScript(t *testing.T, dir, name string) (res string) {
	t.Helper()
	res = filepath.Join(dir, name)
	if err := os.WriteFile(res, []byte("#!/bin/sh\nexit 1\n"), 0755); err != nil {
		t.Error(err)
		t.FailNow()
	}
	return
}
