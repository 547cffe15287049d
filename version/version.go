package version

// Version is the current release of the addressbook service.
const Version = "0.1.0"
