package mysql

const insertItinerarySQL = `
INSERT INTO itineraries
  (user_id, title, destination, start_date, end_date, budget, days, total_cost)
VALUES (?,?,?,?,?,?,?,?)`

const getItinerarySQL = `
SELECT id, user_id, title, destination,
       DATE_FORMAT(start_date, '%Y-%m-%d'),
       DATE_FORMAT(end_date, '%Y-%m-%d'),
       budget, days, total_cost, created_at
FROM itineraries
WHERE id = ?`

const listItinerariesSQL = `
SELECT id, user_id, title, destination,
       DATE_FORMAT(start_date, '%Y-%m-%d'),
       DATE_FORMAT(end_date, '%Y-%m-%d'),
       budget, days, total_cost, created_at
FROM itineraries
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`
