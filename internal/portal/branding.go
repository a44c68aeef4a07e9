package portal

// Branding carries every user-facing string and the color theme of the
// lookup screen. Zero fields fall back to DefaultBranding.
type Branding struct {
	Office      string `yaml:"office"`
	Title       string `yaml:"title"`
	Tagline     string `yaml:"tagline"`
	Placeholder string `yaml:"placeholder"`
	Copy        Copy   `yaml:"copy"`
	Labels      Labels `yaml:"labels"`
	Theme       Theme  `yaml:"theme"`
	FAQ         string `yaml:"faq"`
}

// Copy holds status and result messages.
type Copy struct {
	Warning string `yaml:"warning"`
	// NotFound is a format string receiving the searched file number.
	NotFound      string `yaml:"not_found"`
	Error         string `yaml:"error"`
	Searching     string `yaml:"searching"`
	Complete      string `yaml:"complete"`
	SingleMissing string `yaml:"single_missing"`
	MissingHeader string `yaml:"missing_header"`
	NoData        string `yaml:"no_data"`
	Recent        string `yaml:"recent"`
	Help          string `yaml:"help"`
}

// Labels are the result card field labels.
type Labels struct {
	ApplicantName   string `yaml:"applicant_name"`
	FileNumber      string `yaml:"file_number"`
	ServiceType     string `yaml:"service_type"`
	FileStatus      string `yaml:"file_status"`
	ApplicationDate string `yaml:"application_date"`
	CompletionDate  string `yaml:"completion_date"`
	ApplicationYear string `yaml:"application_year"`
	Checklist       string `yaml:"checklist"`
}

// Theme colors are lipgloss color strings (hex or ANSI index).
type Theme struct {
	Accent string `yaml:"accent"`
	OK     string `yaml:"ok"`
	Warn   string `yaml:"warn"`
	Error  string `yaml:"error"`
	Muted  string `yaml:"muted"`
}

// DefaultBranding returns the office's stock copy and theme.
func DefaultBranding() Branding {
	return Branding{
		Office:      "Kantor Pertanahan",
		Title:       "Cari Nomor Berkas",
		Tagline:     "Cek status permohonan dan kelengkapan berkas Anda",
		Placeholder: "Masukkan Nomor Berkas",
		Copy: Copy{
			Warning:       "⚠️ Harap masukkan nomor berkas",
			NotFound:      `❌ Data dengan nomor berkas "%s" tidak ditemukan`,
			Error:         "Gagal mengambil data. Periksa koneksi Anda.",
			Searching:     "Mencari...",
			Complete:      "✅ Berkas sudah lengkap",
			SingleMissing: "Kekurangan berkas:",
			MissingHeader: "Daftar kekurangan berkas:",
			NoData:        "Belum ada data",
			Recent:        "Pencarian terakhir",
			Help:          "enter: cari • esc: reset • ↑/↓: riwayat • f1: tanya jawab • ctrl+c: keluar",
		},
		Labels: Labels{
			ApplicantName:   "Nama Pemohon",
			FileNumber:      "Nomor Berkas",
			ServiceType:     "Jenis Layanan",
			FileStatus:      "Status Berkas",
			ApplicationDate: "Tanggal Permohonan",
			CompletionDate:  "Tanggal Selesai",
			ApplicationYear: "Tahun Permohonan",
			Checklist:       "Kelengkapan Berkas",
		},
		Theme: Theme{
			Accent: "#2563EB",
			OK:     "#16A34A",
			Warn:   "#CA8A04",
			Error:  "#DC2626",
			Muted:  "#64748B",
		},
		FAQ: defaultFAQ,
	}
}

// WithDefaults fills every empty field from DefaultBranding.
func (b Branding) WithDefaults() Branding {
	d := DefaultBranding()
	fill(&b.Office, d.Office)
	fill(&b.Title, d.Title)
	fill(&b.Tagline, d.Tagline)
	fill(&b.Placeholder, d.Placeholder)
	fill(&b.FAQ, d.FAQ)

	fill(&b.Copy.Warning, d.Copy.Warning)
	fill(&b.Copy.NotFound, d.Copy.NotFound)
	fill(&b.Copy.Error, d.Copy.Error)
	fill(&b.Copy.Searching, d.Copy.Searching)
	fill(&b.Copy.Complete, d.Copy.Complete)
	fill(&b.Copy.SingleMissing, d.Copy.SingleMissing)
	fill(&b.Copy.MissingHeader, d.Copy.MissingHeader)
	fill(&b.Copy.NoData, d.Copy.NoData)
	fill(&b.Copy.Recent, d.Copy.Recent)
	fill(&b.Copy.Help, d.Copy.Help)

	fill(&b.Labels.ApplicantName, d.Labels.ApplicantName)
	fill(&b.Labels.FileNumber, d.Labels.FileNumber)
	fill(&b.Labels.ServiceType, d.Labels.ServiceType)
	fill(&b.Labels.FileStatus, d.Labels.FileStatus)
	fill(&b.Labels.ApplicationDate, d.Labels.ApplicationDate)
	fill(&b.Labels.CompletionDate, d.Labels.CompletionDate)
	fill(&b.Labels.ApplicationYear, d.Labels.ApplicationYear)
	fill(&b.Labels.Checklist, d.Labels.Checklist)

	fill(&b.Theme.Accent, d.Theme.Accent)
	fill(&b.Theme.OK, d.Theme.OK)
	fill(&b.Theme.Warn, d.Theme.Warn)
	fill(&b.Theme.Error, d.Theme.Error)
	fill(&b.Theme.Muted, d.Theme.Muted)
	return b
}

func fill(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

const defaultFAQ = `# Pertanyaan Umum

## Di mana saya menemukan nomor berkas?

Nomor berkas tercetak pada tanda terima pendaftaran (STTD) yang Anda terima
saat mengajukan permohonan di loket.

## Mengapa data saya tidak ditemukan?

Pastikan nomor berkas diketik lengkap, termasuk tahun permohonan jika ada.
Data baru dapat dicari setelah berkas diinput petugas, biasanya pada hari
kerja berikutnya.

## Apa arti "Kekurangan berkas"?

Dokumen yang tercantum masih harus dilengkapi sebelum permohonan dapat
diproses lebih lanjut. Serahkan dokumen tersebut ke loket pelayanan.

## Berkas saya sudah lengkap, kapan selesai?

Lama proses mengikuti standar pelayanan untuk setiap jenis layanan. Status
berkas diperbarui oleh petugas setiap ada perubahan tahapan.

---

Butuh bantuan lain? Hubungi petugas pada jam layanan.
`
