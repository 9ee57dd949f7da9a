package passes

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// ZoneName is the reporting zone: timestamps in the output table are
// rendered in Korean local time without an offset suffix.
const ZoneName = "Asia/Seoul"

const localTimeLayout = "2006-01-02 15:04:05"

var localZone = loadLocalZone()

func loadLocalZone() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		// No tzdata on the host; KST has no DST so a fixed offset is exact.
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// LocalTime renders an instant in the reporting zone as "YYYY-MM-DD HH:MM:SS".
func LocalTime(t time.Time) string {
	return t.In(localZone).Format(localTimeLayout)
}

// Columns returns the output table header, in rendering order.
func Columns() []string {
	return []string{
		"Common Name",
		"Start Time (local)",
		"Start Latitude (deg)",
		"Start Longitude (deg)",
		"Start Altitude (km)",
		"Start Horizontal Velocity (km/s)",
		"Stop Time (local)",
		"Stop Latitude (deg)",
		"Stop Longitude (deg)",
		"Stop Altitude (km)",
		"Stop Horizontal Velocity (km/s)",
		"Duration (sec)",
	}
}

// Row renders the record as one table row. Unavailable numeric fields render
// as empty strings.
func (r Record) Row() []string {
	return []string{
		r.Entry.Name,
		r.Entry.Local,
		r.Entry.Sample.SubLatDeg.String(),
		r.Entry.Sample.SubLonDeg.String(),
		r.Entry.Sample.AltKm.String(),
		r.Entry.Sample.HorizVelKmS.String(),
		r.Exit.Local,
		r.Exit.Sample.SubLatDeg.String(),
		r.Exit.Sample.SubLonDeg.String(),
		r.Exit.Sample.AltKm.String(),
		r.Exit.Sample.HorizVelKmS.String(),
		strconv.FormatInt(r.DurationSec, 10),
	}
}

// Table is the ordered pass list for a whole batch, ready for rendering or
// export.
type Table []Record

// Rows renders every record in table order.
func (t Table) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, r.Row())
	}
	return rows
}

// WriteCSV writes the header row followed by every record.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns()); err != nil {
		return err
	}
	for _, r := range t {
		if err := cw.Write(r.Row()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
