// Command storemy is a small demonstration harness for the storage engine:
// it creates a table, inserts a few rows directly through the BufferPool,
// then runs a SequentialScan -> Filter -> Project pipeline and a separate
// SequentialScan -> Filter -> ungrouped COUNT pipeline over them and prints
// the results. There is no SQL parser or interactive shell
// here; callers that want either build on top of the engine package.
package main

import (
	"flag"
	"fmt"
	"os"

	"storemy/engine"
	"storemy/pkg/config"
	"storemy/pkg/execution"
	"storemy/pkg/execution/aggregation"
	"storemy/pkg/logging"
	"storemy/pkg/primitives"
	"storemy/pkg/tuple"
	"storemy/pkg/types"
)

func main() {
	dataDir := flag.String("data", "./data", "directory holding heap files")
	flag.Parse()

	logging.InitDefault()

	cfg := config.Default()
	cfg.DataDir = *dataDir

	if err := run(cfg); err != nil {
		logging.Error("demonstration failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	db, err := engine.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	defer db.Close()

	td, err := tuple.NewTupleDesc(
		[]types.Type{types.IntType, types.StringType, types.IntType},
		[]string{"id", "city", "population"},
	)
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}

	tableID, err := db.CreateTable("cities", td)
	if err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	if err := seedCities(db, tableID, td); err != nil {
		return fmt.Errorf("seeding rows: %w", err)
	}

	return reportLargeCities(db, tableID)
}

func seedCities(db *engine.Database, tableID primitives.TableID, td *tuple.TupleDescription) error {
	rows := []struct {
		id         int32
		city       string
		population int32
	}{
		{1, "Springfield", 120000},
		{2, "Shelbyville", 45000},
		{3, "Capital City", 800000},
		{4, "Ogdenville", 30000},
	}

	txn, err := db.Begin()
	if err != nil {
		return err
	}

	for _, row := range rows {
		t := tuple.NewTuple(td)
		if err := t.SetField(0, types.NewIntField(row.id)); err != nil {
			return err
		}
		if err := t.SetField(1, types.NewStringField(row.city, 64)); err != nil {
			return err
		}
		if err := t.SetField(2, types.NewIntField(row.population)); err != nil {
			return err
		}
		if err := db.BufferPool().InsertTuple(txn.ID, tableID, t); err != nil {
			_ = db.Abort(txn.ID)
			return err
		}
	}

	return db.Commit(txn.ID)
}

// reportLargeCities scans cities, filters to population > 50000, projects
// down to (city, population), and prints each row; it then hands off to
// countLargeCities, which prints the count through a second pipeline ending
// in an ungrouped COUNT AggregateOperator.
func reportLargeCities(db *engine.Database, tableID primitives.TableID) error {
	txn, err := db.Begin()
	if err != nil {
		return err
	}
	defer db.Commit(txn.ID)

	scan, err := execution.NewSeqScan(txn.ID, tableID, db.Catalog(), db.BufferPool())
	if err != nil {
		return err
	}

	predicate := execution.NewPredicate(2, primitives.GreaterThan, types.NewIntField(50000))
	filter, err := execution.NewFilter(predicate, scan)
	if err != nil {
		return err
	}

	projected, err := execution.NewProject(
		[]int{1, 2},
		[]types.Type{types.StringType, types.IntType},
		filter,
	)
	if err != nil {
		return err
	}

	if err := projected.Open(); err != nil {
		return err
	}
	defer projected.Close()

	fmt.Println("cities with population > 50000:")
	for {
		has, err := projected.HasNext()
		if err != nil {
			return err
		}
		if !has {
			break
		}

		row, err := projected.Next()
		if err != nil {
			return err
		}

		city, _ := row.GetField(0)
		population, _ := row.GetField(1)
		fmt.Printf("  %s: %s\n", city.(*types.StringField).Value, population.(*types.IntField).String())
	}

	return countLargeCities(db, tableID)
}

func countLargeCities(db *engine.Database, tableID primitives.TableID) error {
	txn, err := db.Begin()
	if err != nil {
		return err
	}
	defer db.Commit(txn.ID)

	scan, err := execution.NewSeqScan(txn.ID, tableID, db.Catalog(), db.BufferPool())
	if err != nil {
		return err
	}

	predicate := execution.NewPredicate(2, primitives.GreaterThan, types.NewIntField(50000))
	filter, err := execution.NewFilter(predicate, scan)
	if err != nil {
		return err
	}

	countOp, err := aggregation.NewAggregateOperator(filter, 2, aggregation.NoGrouping, aggregation.Count)
	if err != nil {
		return err
	}

	if err := countOp.Open(); err != nil {
		return err
	}
	defer countOp.Close()

	has, err := countOp.HasNext()
	if err != nil {
		return err
	}
	if !has {
		fmt.Println("count: 0")
		return nil
	}

	row, err := countOp.Next()
	if err != nil {
		return err
	}
	count, _ := row.GetField(0)
	fmt.Printf("count: %s\n", count.(*types.IntField).String())
	return nil
}
