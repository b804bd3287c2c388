package countscsv

// Version is the current version of counts2csv.
const Version = "0.1.0"
