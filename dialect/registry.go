package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Factory builds a Dialect for the reported product version, or returns an
// *UnsupportedError when the version is too old.
type Factory func(version string) (Dialect, error)

type registration struct {
	product      string
	versionQuery string
	factory      Factory
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]registration)
)

// Register makes a dialect available under the given database/sql driver
// name. It is intended to be called from the init function of a concrete
// dialect package, mirroring the database/sql driver convention. Register
// panics on a duplicate driver name.
func Register(driverName, product, versionQuery string, factory Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, dup := drivers[driverName]; dup {
		panic(fmt.Sprintf("dialect: Register called twice for driver %q", driverName))
	}
	drivers[driverName] = registration{product: product, versionQuery: versionQuery, factory: factory}
}

// Detect resolves the dialect for the database behind conn. It performs one
// metadata round trip: the registered version query for driverName. The
// connection is borrowed, not owned; the caller closes it.
//
// An unregistered driver name or an unsupported product version yields an
// *UnsupportedError.
func Detect(ctx context.Context, conn *sql.Conn, driverName string) (Dialect, error) {
	driversMu.RLock()
	reg, ok := drivers[driverName]
	driversMu.RUnlock()
	if !ok {
		return nil, &UnsupportedError{Driver: driverName}
	}
	var version string
	if err := conn.QueryRowContext(ctx, reg.versionQuery).Scan(&version); err != nil {
		return nil, fmt.Errorf("dialect: detect %s version: %w", reg.product, err)
	}
	return reg.factory(version)
}

// ParseVersion extracts the leading major.minor pair from a server version
// string such as "8.4.3" or "16.2 (Debian 16.2-1)". Missing components
// parse as zero.
func ParseVersion(version string) (major, minor int) {
	fields := strings.FieldsFunc(version, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
	if len(fields) == 0 {
		return 0, 0
	}
	parts := strings.Split(fields[0], ".")
	major, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		minor, _ = strconv.Atoi(parts[1])
	}
	return major, minor
}
