// Package launchers generates small wrapper scripts ("launchers") for the scripts of a project.
// Every launcher activates the project's virtual environment, runs its script with all arguments
// passed through unchanged and deactivates the environment afterwards.
// Launchers are build artifacts: Build only rewrites the ones that are missing or older than
// their script and Clean removes all of them.
package launchers
