package runway

// Version is the library version reported in the User-Agent header.
const Version = "0.9.1"
