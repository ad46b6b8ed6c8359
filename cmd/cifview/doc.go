/*
cifview reads protein structures in mmcif format and hands out the atoms
in a form a viewer can draw: element and x, y, z for every ATOM and
HETATM line, plus the title, name and description of the entry.

Usage:

	cifview command [options] args

Commands:

	decode [-o file] [-w] file.cif
		Decode a local file and write json. The file may be
		compressed with gzip or zstd. Without -w the file is split
		into # separated sections and must have at least
		min_sections of them.
	fetch [-o file] [-r] id
		Download a structure from the first mirror that has it and
		write json. With -r, write the mmcif text as it came.
	fasta [-o file] id
		Get the sequences from the RCSB and write one line per
		entity with the chains, the length and the name.
	scan [-n workers] [-m max] [-c cpuprof] dir
		Decode every .cif, .cif.gz and .cif.zst file under dir and
		count the atoms and the failures.
	serve
		Run the http server. GET /api/structures/{id} returns json,
		GET /api/structures/{id}/fasta the sequences and /healthz
		says ok.

Every command takes

	-config file.yaml
		Settings. Without it, the defaults are used.
	-log dest
		stdout, stderr or a file name. Overrides the log setting
		in the config.

The exit code is 0 on success, 1 on failure and 2 for usage errors.
*/
package main
