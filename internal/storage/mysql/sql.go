package mysql

const insertSearchSQL = `
INSERT INTO searches
  (id, session_id, command, city, check_in, check_out, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?)
`

const insertHotelsPrefix = "INSERT INTO search_hotels\n  (search_id, position, property_id, name, price, currency)\nVALUES "

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; id breaks ties between searches stored in the same millisecond.
const listSearchesSQL = `
SELECT id, session_id, command, city, check_in, check_out, created_at
FROM searches
WHERE session_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// Expanded with one placeholder per search id.
const listHotelsPrefix = `
SELECT search_id, property_id, name, price, currency
FROM search_hotels
WHERE search_id IN (`

const listHotelsSuffix = `)
ORDER BY search_id, position
`
