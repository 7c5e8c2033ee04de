// SPDX-FileCopyrightText: © 2025 Nfrastack <code@nfrastack.com>
//
// SPDX-License-Identifier: BSD-3-Clause

package lookup

import (
	"zonemap/pkg/audit"
	"zonemap/pkg/cloudflare"
	"zonemap/pkg/cloudflare/cftest"
	"zonemap/pkg/config"
	"zonemap/pkg/inventory"
	"zonemap/pkg/table"

	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	srv      *cftest.Server
	svc      *Service
	accounts []config.Account
	dir      string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := cftest.NewServer()
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &fixture{
		srv: srv,
		svc: &Service{
			TablePath: filepath.Join(dir, "results.txt"),
			Audit:     audit.New(filepath.Join(dir, "domains.txt")),
			NewSource: inventory.NewSourceFactory(cloudflare.Options{BaseURL: srv.URL, RateLimit: 1000}),
		},
		dir: dir,
	}
}

func (f *fixture) auditLines(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(f.svc.Audit.Path())
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func (f *fixture) apiRequests() int {
	return len(f.srv.Requests())
}

func TestLookupPrefersTable(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, table.Write(f.svc.TablePath, []table.Row{{Domain: "example.com", IP: "1.1.1.1", Account: "A1"}}))
	f.srv.AddAccount("tok", cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("@", "9.9.9.9")}})
	f.accounts = []config.Account{{Name: "A1", Token: "tok"}}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "example.com - 1.1.1.1 (Account: A1)", result.String())
	assert.Equal(t, SourceTable, result.Source)
	assert.Zero(t, f.apiRequests())
	assert.Equal(t, []string{"example.com - 1.1.1.1 (Account: A1)"}, f.auditLines(t))
}

func TestLookupTableIsCaseInsensitiveAndEchoesQuery(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, table.Write(f.svc.TablePath, []table.Row{{Domain: "example.com", IP: "1.1.1.1", Account: "A1"}}))

	result, found, err := f.svc.Lookup(context.Background(), "Example.COM", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Example.COM - 1.1.1.1 (Account: A1)", result.String())
}

func TestLookupRowWithoutAccount(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.svc.TablePath, []byte("Domain;IP;Account\nexample.com;1.1.1.1\n"), 0644))

	result, found, err := f.svc.Lookup(context.Background(), "example.com", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, UnknownAccount, result.Account)
}

func TestLookupFallsBackToAPIWhenTableMissing(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("tok-1", cftest.Zone{ID: "z1", Name: "other.com", Records: []cftest.Record{cftest.A("@", "5.5.5.5")}})
	f.srv.AddAccount("tok-2", cftest.Zone{ID: "z2", Name: "example.com", Records: []cftest.Record{
		cftest.A("www", "2.2.2.2"),
		cftest.A("@", "3.3.3.3"),
	}})
	f.accounts = []config.Account{{Name: "first", Token: "tok-1"}, {Name: "second", Token: "tok-2"}}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Result{Domain: "example.com", IP: "3.3.3.3", Account: "second", Source: SourceAPI}, result)
	assert.Equal(t, []string{"example.com - 3.3.3.3 (Account: second)"}, f.auditLines(t))
}

func TestLookupFallbackRequiresExactZoneName(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, table.Write(f.svc.TablePath, nil))
	f.srv.AddAccount("tok", cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})
	f.accounts = []config.Account{{Name: "A1", Token: "tok"}}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, SourceAPI, result.Source)
	assert.Equal(t, "1.1.1.1", result.IP)

	for _, query := range []string{"sub.example.com", "EXAMPLE.com"} {
		_, found, err := f.svc.Lookup(context.Background(), query, f.accounts)
		require.NoError(t, err)
		assert.False(t, found, query)
	}
	assert.Equal(t, []string{"example.com - 1.1.1.1 (Account: A1)"}, f.auditLines(t))
}

func TestLookupSkipsRejectedRecordFetch(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("tok-1", cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})
	f.srv.AddAccount("tok-2", cftest.Zone{ID: "z2", Name: "example.com", Records: []cftest.Record{cftest.A("@", "2.2.2.2")}})
	f.srv.RejectRecords("z1")
	f.accounts = []config.Account{{Name: "one", Token: "tok-1"}, {Name: "two", Token: "tok-2"}}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, Result{Domain: "example.com", IP: "2.2.2.2", Account: "two", Source: SourceAPI}, result)
}

func TestLookupSkipsFailingAccounts(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("tok-ok", cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("@", "1.1.1.1")}})
	f.accounts = []config.Account{
		{Name: "revoked", Token: "tok-revoked"},
		{Name: "ok", Token: "tok-ok"},
	}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ok", result.Account)
}

func TestLookupContinuesAfterEmptyZone(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("tok-1", cftest.Zone{ID: "z1", Name: "example.com", Records: []cftest.Record{cftest.A("www", "2.2.2.2")}})
	f.srv.AddAccount("tok-2", cftest.Zone{ID: "z2", Name: "example.com", Records: []cftest.Record{cftest.A("@", "4.4.4.4")}})
	f.accounts = []config.Account{{Name: "one", Token: "tok-1"}, {Name: "two", Token: "tok-2"}}

	result, found, err := f.svc.Lookup(context.Background(), "example.com", f.accounts)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "two", result.Account)
}

func TestLookupNotFoundIsNotAudited(t *testing.T) {
	f := newFixture(t)
	f.srv.AddAccount("tok", cftest.Zone{ID: "z1", Name: "example.com"})

	_, found, err := f.svc.Lookup(context.Background(), "missing.org", []config.Account{{Name: "A1", Token: "tok"}})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, f.auditLines(t))
}

func TestLookupRejectsInvalidDomain(t *testing.T) {
	f := newFixture(t)

	for _, query := range []string{"", "   ", "bad domain.com", "a;b.com"} {
		_, found, err := f.svc.Lookup(context.Background(), query, nil)
		assert.ErrorIs(t, err, ErrInvalidDomain, query)
		assert.False(t, found)
	}
	assert.Zero(t, f.apiRequests())
}

func TestLookupTrimsQuery(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, table.Write(f.svc.TablePath, []table.Row{{Domain: "example.com", IP: "1.1.1.1", Account: "A1"}}))

	result, found, err := f.svc.Lookup(context.Background(), "  example.com.\n", nil)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "example.com", result.Domain)
}
