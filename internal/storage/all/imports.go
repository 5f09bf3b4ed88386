// Package all wires every built-in storage backend into the storage factory.
//
// It exists for side effects: importing it runs each backend's init, which
// registers its repository factory and DDL builder. After
//
//	import _ "disasteretl/internal/storage/all"
//
// storage.Save accepts sqlite paths, postgres:// and sqlserver:// destinations.
package all

import (
	_ "disasteretl/internal/storage/mssql"
	_ "disasteretl/internal/storage/postgres"
	_ "disasteretl/internal/storage/sqlite"
)
