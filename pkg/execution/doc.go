// Package execution holds the single-table relational operators that read
// through the buffer pool: SequentialScan, Filter, and Project. Together
// they form the iterator (volcano) model pipeline — every operator exposes
// Open/HasNext/Next/Close, and composing them builds a tree that pulls one
// tuple at a time without materializing intermediate results.
//
// GROUP BY / aggregate functions live in the aggregation subpackage, layered
// on top of this same iterator contract.
package execution
