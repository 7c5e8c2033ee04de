// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package inventory

import (
	"zonemap/pkg/cloudflare"
	"zonemap/pkg/cloudflare/cftest"
	"zonemap/pkg/config"
	"zonemap/pkg/log"
	"zonemap/pkg/table"

	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory(srv *cftest.Server) SourceFactory {
	return NewSourceFactory(cloudflare.Options{BaseURL: srv.URL, RateLimit: 1000})
}

func newSource(t *testing.T, srv *cftest.Server, name, token string) ZoneSource {
	t.Helper()
	src, err := testFactory(srv)(config.Account{Name: name, Token: token})
	require.NoError(t, err)
	return src
}

func sortedRows(rows []table.Row) []table.Row {
	out := append([]table.Row(nil), rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

type recordingOutput struct {
	name string
	rows []table.Row
	err  error
}

func (o *recordingOutput) String() string { return o.name }

func (o *recordingOutput) Write(rows []table.Row) error {
	o.rows = append([]table.Row(nil), rows...)
	return o.err
}

func TestProcessAccountKeepsOnlyApexRecords(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok", cftest.Zone{
		ID:   "z1",
		Name: "example.com",
		Records: []cftest.Record{
			cftest.A("@", "1.1.1.1"),
			cftest.A("www", "2.2.2.2"),
		},
	})

	result := ProcessAccount(context.Background(), newSource(t, srv, "main", "tok"))

	assert.Equal(t, []table.Row{{Domain: "example.com", IP: "1.1.1.1", Account: "main"}}, result.Rows)
	assert.Equal(t, StatusOK, result.Status)
	assert.False(t, result.Partial())
	require.Len(t, result.Zones, 1)
	assert.Equal(t, StatusOK, result.Zones[0].Status)
}

func TestProcessAccountRoundRobin(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok", cftest.Zone{
		ID:   "z1",
		Name: "example.com",
		Records: []cftest.Record{
			cftest.A("example.com", "1.1.1.1"),
			cftest.A("example.com", "1.1.1.2"),
		},
	})

	result := ProcessAccount(context.Background(), newSource(t, srv, "main", "tok"))

	assert.Equal(t, []table.Row{
		{Domain: "example.com", IP: "1.1.1.1", Account: "main"},
		{Domain: "example.com", IP: "1.1.1.2", Account: "main"},
	}, result.Rows)
}

func TestProcessAccountStatuses(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("empty-tok", cftest.Zone{ID: "e1", Name: "quiet.com", Records: []cftest.Record{cftest.A("www", "2.2.2.2")}})
	srv.AddAccount("none-tok")
	srv.AddAccount("mixed-tok",
		cftest.Zone{ID: "m1", Name: "good.com", Records: []cftest.Record{cftest.A("@", "3.3.3.3")}},
		cftest.Zone{ID: "m2", Name: "bad.com", Records: []cftest.Record{cftest.A("@", "4.4.4.4")}},
	)
	srv.FailRecords("m2")
	srv.AddAccount("broken-tok", cftest.Zone{ID: "b1", Name: "broken.com"})
	srv.FailRecords("b1")
	srv.AddAccount("rejected-tok", cftest.Zone{ID: "r1", Name: "rejected.com", Records: []cftest.Record{cftest.A("@", "5.5.5.5")}})
	srv.RejectRecords("r1")

	tests := []struct {
		token     string
		status    Status
		rows      int
		partial   bool
		failedZns int
	}{
		{"empty-tok", StatusEmpty, 0, false, 0},
		{"none-tok", StatusEmpty, 0, false, 0},
		{"mixed-tok", StatusOK, 1, true, 1},
		{"broken-tok", StatusFailed, 0, true, 1},
		{"rejected-tok", StatusFailed, 0, true, 1},
		{"unknown-tok", StatusFailed, 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			result := ProcessAccount(context.Background(), newSource(t, srv, tt.token, tt.token))
			assert.Equal(t, tt.status, result.Status, tt.status.String())
			assert.Len(t, result.Rows, tt.rows)
			assert.Equal(t, tt.partial, result.Partial())
			assert.Equal(t, tt.failedZns, result.FailedZones())
			if tt.status == StatusFailed {
				assert.Error(t, result.Err())
			}
		})
	}
}

func TestExportTwoAccountsRegardlessOfOrder(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok-a", cftest.Zone{ID: "a1", Name: "a.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})
	srv.AddAccount("tok-b", cftest.Zone{ID: "b1", Name: "b.com", Records: []cftest.Record{cftest.A("@", "2.2.2.2")}})
	srv.SetDelay("tok-a", 50*time.Millisecond)

	path := filepath.Join(t.TempDir(), "results.txt")
	exporter := &Exporter{TablePath: path, NewSource: testFactory(srv)}

	summary, err := exporter.Export(context.Background(), []config.Account{
		{Name: "A", Token: "tok-a"},
		{Name: "B", Token: "tok-b"},
	})
	require.NoError(t, err)

	assert.Equal(t, []table.Row{
		{Domain: "a.com", IP: "1.1.1.1", Account: "A"},
		{Domain: "b.com", IP: "2.2.2.2", Account: "B"},
	}, sortedRows(summary.Rows))
	assert.Len(t, summary.Accounts, 2)
	assert.Positive(t, summary.Duration)

	persisted, err := table.Read(path)
	require.NoError(t, err)
	assert.Len(t, persisted, 2)
}

func TestExportFailingAccountDoesNotBlockOthers(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok-good", cftest.Zone{ID: "g1", Name: "good.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})

	path := filepath.Join(t.TempDir(), "results.txt")
	exporter := &Exporter{TablePath: path, NewSource: testFactory(srv)}

	summary, err := exporter.Export(context.Background(), []config.Account{
		{Name: "bad", Token: "tok-revoked"},
		{Name: "good", Token: "tok-good"},
	})
	require.NoError(t, err)

	assert.Equal(t, []table.Row{{Domain: "good.com", IP: "1.1.1.1", Account: "good"}}, summary.Rows)
	failed := summary.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Account)
}

func TestExportIsRepeatable(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok-a", cftest.Zone{ID: "a1", Name: "a.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})
	srv.AddAccount("tok-b", cftest.Zone{ID: "b1", Name: "b.com", Records: []cftest.Record{cftest.A("@", "2.2.2.2")}})
	accounts := []config.Account{{Name: "A", Token: "tok-a"}, {Name: "B", Token: "tok-b"}}

	path := filepath.Join(t.TempDir(), "results.txt")
	exporter := &Exporter{TablePath: path, NewSource: testFactory(srv), MaxWorkers: 1}

	_, err := exporter.Export(context.Background(), accounts)
	require.NoError(t, err)
	first, err := table.Read(path)
	require.NoError(t, err)

	_, err = exporter.Export(context.Background(), accounts)
	require.NoError(t, err)
	second, err := table.Read(path)
	require.NoError(t, err)

	assert.Equal(t, sortedRows(first), sortedRows(second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Domain;IP;Account\n", string(data[:len("Domain;IP;Account\n")]))
}

func TestExportNoAccountsWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.txt")
	exporter := &Exporter{TablePath: path}

	summary, err := exporter.Export(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, summary.Rows)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Domain;IP;Account\n", string(data))
}

func TestExportWritesOutputsAndToleratesFailures(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok", cftest.Zone{ID: "a1", Name: "a.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})

	broken := &recordingOutput{name: "json:/nowhere", err: errors.New("disk full")}
	working := &recordingOutput{name: "hosts:/tmp/hosts"}
	exporter := &Exporter{
		TablePath: filepath.Join(t.TempDir(), "results.txt"),
		NewSource: testFactory(srv),
		Outputs:   []Output{broken, working},
	}

	_, err := exporter.Export(context.Background(), []config.Account{{Name: "A", Token: "tok"}})
	require.NoError(t, err)
	assert.Len(t, broken.rows, 1)
	assert.Equal(t, []table.Row{{Domain: "a.com", IP: "1.1.1.1", Account: "A"}}, working.rows)
}

func TestExportReportsTableWriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	exporter := &Exporter{TablePath: filepath.Join(blocker, "results.txt")}
	_, err := exporter.Export(context.Background(), nil)
	assert.Error(t, err)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 3, (&Exporter{}).workers(3))
	assert.Equal(t, 2, (&Exporter{MaxWorkers: 2}).workers(3))
	assert.Equal(t, 3, (&Exporter{MaxWorkers: 8}).workers(3))
}

func TestExportLogsZoneCountPerAccount(t *testing.T) {
	srv := cftest.NewServer()
	defer srv.Close()
	srv.AddAccount("tok",
		cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}},
		cftest.Zone{ID: "z2", Name: "quiet.com", Records: []cftest.Record{cftest.A("www", "2.2.2.2")}},
	)

	logger := log.GetLogger()
	prevLevel := logger.GetLevel()
	buf := &bytes.Buffer{}
	logger.SetOutput(buf)
	logger.SetLevel(log.LevelDebug)
	t.Cleanup(func() {
		logger.SetOutput(os.Stdout)
		logger.SetLevel(prevLevel)
	})

	exp := &Exporter{TablePath: filepath.Join(t.TempDir(), "results.txt"), NewSource: testFactory(srv)}
	summary, err := exp.Export(context.Background(), []config.Account{{Name: "main", Token: "tok"}})
	require.NoError(t, err)
	require.Len(t, summary.Rows, 1)

	out := buf.String()
	assert.Contains(t, out, "Found domains in account main: 2")
	assert.Contains(t, out, "[inventory/main][quiet_com] No apex A record")
}
