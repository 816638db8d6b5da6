package leave

import "gorm.io/gorm"

// overlapExclusion is the storage backstop for concurrent overlapping creates.
// It mirrors FindOverlap: rejected and deleted leaves do not block.
const overlapExclusion = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'ex_leave_no_overlap') THEN
		ALTER TABLE leave_applications ADD CONSTRAINT ex_leave_no_overlap
		EXCLUDE USING gist (
			employee_id WITH =,
			daterange(start_date, end_date, '[]') WITH &&
		) WHERE (hod_status <> 'Rejected' AND admin_status <> 'Rejected' AND deleted_at IS NULL);
	END IF;
END $$;
`

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&LeaveApplication{}); err != nil {
		return err
	}
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		return err
	}
	return db.Exec(overlapExclusion).Error
}
