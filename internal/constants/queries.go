package constants

const (
	GetRatioSamplesByAircraft = `
	SELECT diff_hobbs, diff_tach
	FROM flights
	WHERE aircraft_id = $1
	  AND diff_hobbs > 0
	  AND diff_tach > 0
	  AND hobbs_inicio <> hobbs_fin
	ORDER BY flight_date ASC
	`

	GetMonthlyActivityByAircraft = `
	SELECT to_char(date_trunc('month', flight_date), 'YYYY-MM') AS month,
	       COUNT(*) AS flights,
	       COALESCE(SUM(diff_hobbs), 0) AS hobbs_hours,
	       COALESCE(SUM(diff_tach), 0)  AS tach_hours,
	       COALESCE(SUM(costo), 0)      AS billed
	FROM flights
	WHERE aircraft_id = $1
	GROUP BY date_trunc('month', flight_date)
	ORDER BY date_trunc('month', flight_date) DESC
	`
)
