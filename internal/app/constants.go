package app

// NumSeats is the fixed table size for both games.
// Partnerships are seat parity: seats 0/2 against seats 1/3.
const NumSeats = 4

// MinHumansToStart defines how many occupied human seats a lobby needs
// before the owner may start; the remaining seats are filled with bots.
// Keep this centralized so tests or local runs can adjust the rule without
// touching multiple call sites.
const MinHumansToStart = 1
