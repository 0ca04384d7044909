/*
Package export renders loaded records as text tables, markdown or CSV.

CSV output follows the panel dialect: semicolon separated, optional byte order
mark, one header line. Exporting an empty list fails with ErrNoData.
*/
package export
