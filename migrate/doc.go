// Package migrate diffs an expected model registry against the live
// database catalog and emits additive migration artifacts.
//
// For a missing table it plans a create migration (full column list,
// unique indexes for unique and email fields) together with a generated
// entity definition. For an existing table it plans an alter migration
// adding absent columns and dropping stray ones. Reverse statements
// mirror the forward ones; a reversed column drop comes back as nullable
// text, so type information does not survive the round trip.
//
// Migration files are written through an atlas migration directory with
// its checksum file, using the default up/down formatter or any other
// atlas formatter (goose via sqltool.GooseFormatter). A YAML changelog
// records every action taken; synchronizing an unchanged schema emits
// nothing.
package migrate
