package tier

const (
	NameMajor    = "major"
	NameElevated = "elevated"
	NameStandard = "standard"
	NamePlayoff  = "playoff"
)

// DefaultTables is the versioned reference data for the current season.
// Points and payouts run from winner downwards; anything past the table
// length earns nothing.
func DefaultTables() []Tier {
	return []Tier{
		{
			Name: NameMajor,
			Points: []int{
				750, 400, 350, 325, 300, 275, 225, 200, 175, 150,
				130, 120, 110, 100, 90, 80, 70, 65, 60, 55,
				50, 45, 40, 35, 30, 25, 20, 15, 10, 5,
			},
			Payouts: []int64{
				360000, 216000, 136000, 96000, 80000, 72000, 64000, 57600, 52000, 48000,
				44000, 40800, 38000, 35600, 33600, 32000, 30400, 28800, 27200, 25600,
				24000, 22400, 20800, 19200, 17600, 16000, 14400, 12800, 11200, 9600,
			},
		},
		{
			Name: NameElevated,
			Points: []int{
				550, 300, 260, 240, 220, 200, 165, 145, 125, 110,
				95, 88, 81, 74, 67, 60, 53, 48, 44, 40,
				36, 32, 28, 24, 20, 16, 12, 9, 6, 3,
			},
			Payouts: []int64{
				270000, 162000, 102000, 72000, 60000, 54000, 48000, 43200, 39000, 36000,
				33000, 30600, 28500, 26700, 25200, 24000, 22800, 21600, 20400, 19200,
				18000, 16800, 15600, 14400, 13200, 12000, 10800, 9600, 8400, 7200,
			},
		},
		{
			Name: NameStandard,
			Points: []int{
				500, 300, 190, 135, 110, 100, 90, 85, 80, 75,
				70, 65, 60, 57, 54, 51, 48, 45, 42, 39,
				36, 33, 30, 27, 24, 21, 18, 15, 12, 9,
			},
			Payouts: []int64{
				180000, 108000, 68000, 48000, 40000, 36000, 32000, 28800, 26000, 24000,
				22000, 20400, 19000, 17800, 16800, 16000, 15200, 14400, 13600, 12800,
				12000, 11200, 10400, 9600, 8800, 8000, 7200, 6400, 5600, 4800,
			},
		},
		{
			Name: NamePlayoff,
			Points: []int{
				1000, 600, 450, 400, 375, 350, 325, 300, 275, 250,
				225, 210, 195, 180, 165, 150, 140, 130, 120, 110,
				100, 90, 80, 70, 60, 50, 40, 30, 20, 10,
			},
			Payouts: []int64{
				1000000, 500000, 350000, 250000, 200000, 175000, 150000, 125000, 100000, 90000,
				80000, 75000, 70000, 65000, 60000, 55000, 50000, 45000, 40000, 35000,
				30000, 28000, 26000, 24000, 22000, 20000, 18000, 16000, 14000, 12000,
			},
		},
	}
}
